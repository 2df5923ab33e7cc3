package indicators

import (
	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// RSI returns the Wilder relative strength index over period close-to-close
// changes ending at endIndex.
//
// Warmup: with fewer than period+1 bars the neutral value 50 is returned.
// Zero average loss resolves to 100, zero average gain to 0.
func RSI(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	if period <= 0 || endIndex < period {
		return fifty, nil
	}
	// seed averages over the first `period` changes, then Wilder-smooth
	avgGain := decimal.Zero
	avgLoss := decimal.Zero
	for i := 1; i <= period; i++ {
		change := bars[i].Close.Sub(bars[i-1].Close)
		if change.IsNegative() {
			avgLoss = avgLoss.Add(change.Neg())
		} else {
			avgGain = avgGain.Add(change)
		}
	}
	p := decimal.NewFromInt(int64(period))
	pMinus1 := decimal.NewFromInt(int64(period - 1))
	avgGain = avgGain.DivRound(p, calcScale)
	avgLoss = avgLoss.DivRound(p, calcScale)
	for i := period + 1; i <= endIndex; i++ {
		change := bars[i].Close.Sub(bars[i-1].Close)
		gain := decimal.Zero
		loss := decimal.Zero
		if change.IsNegative() {
			loss = change.Neg()
		} else {
			gain = change
		}
		avgGain = avgGain.Mul(pMinus1).Add(gain).DivRound(p, calcScale)
		avgLoss = avgLoss.Mul(pMinus1).Add(loss).DivRound(p, calcScale)
	}
	if avgLoss.IsZero() {
		if avgGain.IsZero() {
			return fifty, nil
		}
		return hundred, nil
	}
	rs := avgGain.DivRound(avgLoss, calcScale)
	return hundred.Sub(hundred.DivRound(decimal.NewFromInt(1).Add(rs), calcScale)), nil
}

// ROC returns the rate of change vs the close period bars earlier, as a
// percentage. Warmup or a zero reference close resolves to 0.
func ROC(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	if period <= 0 || endIndex < period {
		return decimal.Zero, nil
	}
	ref := bars[endIndex-period].Close
	return safeDiv(bars[endIndex].Close.Sub(ref), ref, decimal.Zero).Mul(hundred), nil
}

// StochasticResult bundles the %K and %D lines.
type StochasticResult struct {
	K decimal.Decimal
	D decimal.Decimal
}

// Stochastic returns the stochastic oscillator: %K over kPeriod bars and %D
// as the simple average of the last dPeriod %K values. A flat high-low range
// resolves %K to the neutral 50.
func Stochastic(bars []marketdata.PriceBar, endIndex, kPeriod, dPeriod int) (StochasticResult, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return StochasticResult{}, err
	}
	k := stochasticK(bars, endIndex, kPeriod)
	if dPeriod <= 1 {
		return StochasticResult{K: k, D: k}, nil
	}
	ks := make([]decimal.Decimal, 0, dPeriod)
	for i := windowStart(endIndex, dPeriod); i <= endIndex; i++ {
		ks = append(ks, stochasticK(bars, i, kPeriod))
	}
	return StochasticResult{K: k, D: avg(ks)}, nil
}

func stochasticK(bars []marketdata.PriceBar, end, period int) decimal.Decimal {
	high, low := highLowRange(bars, end, period)
	return safeDiv(bars[end].Close.Sub(low), high.Sub(low), decimal.NewFromFloat(0.5)).Mul(hundred)
}

// WilliamsR returns Williams %R over period bars, in [-100, 0]. A flat range
// resolves to the midpoint -50.
func WilliamsR(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	high, low := highLowRange(bars, endIndex, period)
	return safeDiv(high.Sub(bars[endIndex].Close), high.Sub(low), decimal.NewFromFloat(0.5)).Mul(negHundred), nil
}

// CCI returns the commodity channel index over period bars: the typical
// price deviation from its average, scaled by 0.015 times the mean absolute
// deviation. Zero deviation resolves to 0.
func CCI(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	start := windowStart(endIndex, period)
	tps := make([]decimal.Decimal, 0, endIndex-start+1)
	for i := start; i <= endIndex; i++ {
		tps = append(tps, bars[i].TypicalPrice())
	}
	mean := avg(tps)
	dev := decimal.Zero
	for _, tp := range tps {
		dev = dev.Add(tp.Sub(mean).Abs())
	}
	meanDev := dev.DivRound(decimal.NewFromInt(int64(len(tps))), calcScale)
	den := decimal.NewFromFloat(0.015).Mul(meanDev)
	return safeDiv(tps[len(tps)-1].Sub(mean), den, decimal.Zero), nil
}

// MFI returns the money flow index over period bars. Warmup (fewer than
// period+1 bars) resolves to the neutral 50; zero negative flow to 100.
func MFI(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	if period <= 0 || endIndex < period {
		return fifty, nil
	}
	posFlow := decimal.Zero
	negFlow := decimal.Zero
	for i := endIndex - period + 1; i <= endIndex; i++ {
		tp := bars[i].TypicalPrice()
		prevTP := bars[i-1].TypicalPrice()
		flow := tp.Mul(decimal.NewFromInt(bars[i].Volume))
		switch tp.Cmp(prevTP) {
		case 1:
			posFlow = posFlow.Add(flow)
		case -1:
			negFlow = negFlow.Add(flow)
		}
	}
	if negFlow.IsZero() {
		if posFlow.IsZero() {
			return fifty, nil
		}
		return hundred, nil
	}
	ratio := posFlow.DivRound(negFlow, calcScale)
	return hundred.Sub(hundred.DivRound(decimal.NewFromInt(1).Add(ratio), calcScale)), nil
}
