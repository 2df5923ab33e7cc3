package indicators

import (
	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// ADXResult bundles the average directional index with its directional lines.
type ADXResult struct {
	ADX     decimal.Decimal
	PlusDI  decimal.Decimal
	MinusDI decimal.Decimal
}

// ADX returns Wilder's average directional index over period bars. Smoothed
// TR, +DM and -DM are seeded with plain sums over the first window, the DX
// series with its simple average, recursion forward from there. Warmup
// (fewer than 2*period bars of history for the ADX line) returns zeros, and
// every ratio guards a zero denominator.
func ADX(bars []marketdata.PriceBar, endIndex, period int) (ADXResult, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return ADXResult{}, err
	}
	if period <= 0 || endIndex < period {
		return ADXResult{}, nil
	}

	p := decimal.NewFromInt(int64(period))
	plusDM := func(i int) decimal.Decimal {
		up := bars[i].High.Sub(bars[i-1].High)
		down := bars[i-1].Low.Sub(bars[i].Low)
		if up.GreaterThan(down) && up.GreaterThan(decimal.Zero) {
			return up
		}
		return decimal.Zero
	}
	minusDM := func(i int) decimal.Decimal {
		up := bars[i].High.Sub(bars[i-1].High)
		down := bars[i-1].Low.Sub(bars[i].Low)
		if down.GreaterThan(up) && down.GreaterThan(decimal.Zero) {
			return down
		}
		return decimal.Zero
	}

	// Wilder seed: plain sums over the first window.
	smTR := decimal.Zero
	smPlus := decimal.Zero
	smMinus := decimal.Zero
	for i := 1; i <= period; i++ {
		smTR = smTR.Add(trueRange(bars, i))
		smPlus = smPlus.Add(plusDM(i))
		smMinus = smMinus.Add(minusDM(i))
	}

	diAt := func() (plusDI, minusDI, dx decimal.Decimal) {
		plusDI = safeDiv(smPlus, smTR, decimal.Zero).Mul(hundred)
		minusDI = safeDiv(smMinus, smTR, decimal.Zero).Mul(hundred)
		dx = safeDiv(plusDI.Sub(minusDI).Abs(), plusDI.Add(minusDI), decimal.Zero).Mul(hundred)
		return
	}

	plusDI, minusDI, dx := diAt()
	dxSeries := []decimal.Decimal{dx}
	for i := period + 1; i <= endIndex; i++ {
		smTR = smTR.Sub(smTR.DivRound(p, calcScale)).Add(trueRange(bars, i))
		smPlus = smPlus.Sub(smPlus.DivRound(p, calcScale)).Add(plusDM(i))
		smMinus = smMinus.Sub(smMinus.DivRound(p, calcScale)).Add(minusDM(i))
		plusDI, minusDI, dx = diAt()
		dxSeries = append(dxSeries, dx)
	}

	// ADX: simple average of the first period DX values, Wilder-smoothed
	// after that.
	var adx decimal.Decimal
	if len(dxSeries) < period {
		adx = avg(dxSeries)
	} else {
		adx = avg(dxSeries[:period])
		pMinus1 := decimal.NewFromInt(int64(period - 1))
		for i := period; i < len(dxSeries); i++ {
			adx = adx.Mul(pMinus1).Add(dxSeries[i]).DivRound(p, calcScale)
		}
	}
	return ADXResult{ADX: adx, PlusDI: plusDI, MinusDI: minusDI}, nil
}

// ParabolicSAR returns the stop-and-reverse level at endIndex, iterated from
// the start of the series with acceleration afStep up to afMax. The first
// bar has no prior trend; its SAR is its own low.
func ParabolicSAR(bars []marketdata.PriceBar, endIndex int, afStep, afMax decimal.Decimal) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	if endIndex == 0 {
		return bars[0].Low, nil
	}

	rising := bars[1].Close.GreaterThanOrEqual(bars[0].Close)
	sar := bars[0].Low
	ep := bars[0].High
	if !rising {
		sar = bars[0].High
		ep = bars[0].Low
	}
	af := afStep

	for i := 1; i <= endIndex; i++ {
		sar = sar.Add(af.Mul(ep.Sub(sar))).Round(calcScale)
		if rising {
			if bars[i].Low.LessThan(sar) {
				// reverse down
				rising = false
				sar = ep
				ep = bars[i].Low
				af = afStep
				continue
			}
			if bars[i].High.GreaterThan(ep) {
				ep = bars[i].High
				af = decimal.Min(af.Add(afStep), afMax)
			}
		} else {
			if bars[i].High.GreaterThan(sar) {
				// reverse up
				rising = true
				sar = ep
				ep = bars[i].High
				af = afStep
				continue
			}
			if bars[i].Low.LessThan(ep) {
				ep = bars[i].Low
				af = decimal.Min(af.Add(afStep), afMax)
			}
		}
	}
	return sar, nil
}

// IchimokuResult bundles the five Ichimoku lines. Senkou spans are computed
// on current data without the forward displacement used for plotting; the
// chikou value is the close lagged by the base period (current close before
// that much history exists).
type IchimokuResult struct {
	Tenkan  decimal.Decimal
	Kijun   decimal.Decimal
	SenkouA decimal.Decimal
	SenkouB decimal.Decimal
	Chikou  decimal.Decimal
}

// Ichimoku returns the Ichimoku lines with conversion, base and leading-span
// periods (classically 9, 26, 52). Each line is the midpoint of the window's
// high-low range, shrunk to the available history during warmup.
func Ichimoku(bars []marketdata.PriceBar, endIndex, conversionPeriod, basePeriod, spanBPeriod int) (IchimokuResult, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return IchimokuResult{}, err
	}
	mid := func(n int) decimal.Decimal {
		high, low := highLowRange(bars, endIndex, n)
		return high.Add(low).DivRound(two, calcScale)
	}
	tenkan := mid(conversionPeriod)
	kijun := mid(basePeriod)
	chikou := bars[endIndex].Close
	if endIndex >= basePeriod {
		chikou = bars[endIndex-basePeriod].Close
	}
	return IchimokuResult{
		Tenkan:  tenkan,
		Kijun:   kijun,
		SenkouA: tenkan.Add(kijun).DivRound(two, calcScale),
		SenkouB: mid(spanBPeriod),
		Chikou:  chikou,
	}, nil
}
