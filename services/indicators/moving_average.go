package indicators

import (
	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// SMA returns the simple moving average of closes over period bars ending at
// endIndex. With fewer than period bars available it averages what exists.
func SMA(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	if period <= 0 {
		return bars[endIndex].Close, nil
	}
	start := windowStart(endIndex, period)
	sum := decimal.Zero
	for i := start; i <= endIndex; i++ {
		sum = sum.Add(bars[i].Close)
	}
	return sum.DivRound(decimal.NewFromInt(int64(endIndex-start+1)), calcScale), nil
}

// EMA returns the exponential moving average of closes over period bars
// ending at endIndex, smoothing factor 2/(period+1).
//
// Seeding convention: the value at index period-1 is the simple average of
// the first period closes; the recursive step applies from index period
// forward. Before the seed point the available closes are averaged.
func EMA(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	closes := make([]decimal.Decimal, endIndex+1)
	for i := 0; i <= endIndex; i++ {
		closes[i] = bars[i].Close
	}
	return emaSeries(closes, period), nil
}

// emaSeries runs the seeded EMA recursion over an arbitrary value series and
// returns the value at the last index.
func emaSeries(values []decimal.Decimal, period int) decimal.Decimal {
	n := len(values)
	if n == 0 {
		return decimal.Zero
	}
	if period <= 1 {
		return values[n-1]
	}
	if n < period {
		return avg(values)
	}
	// seed = simple average over the earliest full window
	ema := avg(values[:period])
	k := two.DivRound(decimal.NewFromInt(int64(period+1)), calcScale)
	for i := period; i < n; i++ {
		ema = values[i].Sub(ema).Mul(k).Add(ema).Round(calcScale)
	}
	return ema
}

// VWAP returns the rolling volume-weighted average price over period bars
// ending at endIndex, using typical price (H+L+C)/3. Zero cumulative volume
// resolves to the close at endIndex.
func VWAP(bars []marketdata.PriceBar, endIndex, period int) (decimal.Decimal, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, err
	}
	start := windowStart(endIndex, period)
	sumPV := decimal.Zero
	sumV := decimal.Zero
	for i := start; i <= endIndex; i++ {
		vol := decimal.NewFromInt(bars[i].Volume)
		sumPV = sumPV.Add(bars[i].TypicalPrice().Mul(vol))
		sumV = sumV.Add(vol)
	}
	return safeDiv(sumPV, sumV, bars[endIndex].Close), nil
}
