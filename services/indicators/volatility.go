package indicators

import (
	"math"

	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// BollingerResult bundles the three Bollinger bands.
type BollingerResult struct {
	Upper  decimal.Decimal
	Middle decimal.Decimal
	Lower  decimal.Decimal
}

// Bollinger returns the middle SMA band over period bars plus bands offset
// by width population standard deviations. With insufficient history the
// window shrinks to the available bars, so early bands hug the price.
func Bollinger(bars []marketdata.PriceBar, endIndex, period int, width decimal.Decimal) (BollingerResult, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return BollingerResult{}, err
	}
	start := windowStart(endIndex, period)
	window := make([]decimal.Decimal, 0, endIndex-start+1)
	for i := start; i <= endIndex; i++ {
		window = append(window, bars[i].Close)
	}
	mean := avg(window)
	variance := decimal.Zero
	for _, c := range window {
		d := c.Sub(mean)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.DivRound(decimal.NewFromInt(int64(len(window))), calcScale)
	// no decimal square root; take it in float64 and come back to the
	// calculation scale
	std := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64())).Round(calcScale)
	offset := std.Mul(width)
	return BollingerResult{
		Upper:  mean.Add(offset),
		Middle: mean,
		Lower:  mean.Sub(offset),
	}, nil
}

// ATR returns Wilder's average true range over period bars ending at
// endIndex.
//
// Seeding convention: the value at index period is the simple average of the
// true ranges at indices 1..period; the recursive step
// atr = (atr*(period-1) + tr) / period applies from index period+1 forward.
// Before the seed point the available true ranges are averaged.
func ATR(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	if endIndex == 0 || period <= 0 {
		return trueRange(bars, endIndex), nil
	}
	if endIndex < period {
		trs := make([]decimal.Decimal, 0, endIndex)
		for i := 1; i <= endIndex; i++ {
			trs = append(trs, trueRange(bars, i))
		}
		return avg(trs), nil
	}
	atr := decimal.Zero
	for i := 1; i <= period; i++ {
		atr = atr.Add(trueRange(bars, i))
	}
	p := decimal.NewFromInt(int64(period))
	pMinus1 := decimal.NewFromInt(int64(period - 1))
	atr = atr.DivRound(p, calcScale)
	for i := period + 1; i <= endIndex; i++ {
		atr = atr.Mul(pMinus1).Add(trueRange(bars, i)).DivRound(p, calcScale)
	}
	return atr, nil
}
