// Package indicators is a library of stateless technical-indicator functions
// over a validated bar series. Every function takes the series plus an
// inclusive end index and reads only bars[0..endIndex]; no lookahead.
//
// Contract: an invalid endIndex is the only error condition. When the
// lookback implied by the parameters exceeds the available history, each
// function returns a documented neutral value instead of failing, so
// strategies stay well-defined during warmup. All divisions guard their
// denominator and resolve to a sentinel rather than panicking.
//
// Iterative formulas (EMA, Wilder smoothing, ADX) run at the internal
// calculation scale (12 fractional digits); display rounding is the
// caller's concern.
package indicators

import (
	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

var (
	two        = decimal.NewFromInt(2)
	fifty      = decimal.NewFromInt(50)
	hundred    = decimal.NewFromInt(100)
	negHundred = decimal.NewFromInt(-100)
)

const calcScale = marketdata.CalcScale

// windowStart clamps a lookback window of n bars ending at end to the start
// of the series.
func windowStart(end, n int) int {
	start := end - n + 1
	if start < 0 {
		start = 0
	}
	return start
}

// avg returns the simple average of values, zero for an empty slice.
func avg(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	return sum.DivRound(decimal.NewFromInt(int64(len(values))), calcScale)
}

// safeDiv divides num by den at the calculation scale, returning fallback
// when den is zero.
func safeDiv(num, den, fallback decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return fallback
	}
	return num.DivRound(den, calcScale)
}

// highLowRange returns the highest high and lowest low over the window of n
// bars ending at end (clamped to the series start).
func highLowRange(bars []marketdata.PriceBar, end, n int) (high, low decimal.Decimal) {
	start := windowStart(end, n)
	high = bars[start].High
	low = bars[start].Low
	for i := start + 1; i <= end; i++ {
		if bars[i].High.GreaterThan(high) {
			high = bars[i].High
		}
		if bars[i].Low.LessThan(low) {
			low = bars[i].Low
		}
	}
	return high, low
}

// trueRange returns the true range at index i: max(high-low, |high-prevClose|,
// |low-prevClose|). For i == 0 it degrades to high-low.
func trueRange(bars []marketdata.PriceBar, i int) decimal.Decimal {
	hl := bars[i].High.Sub(bars[i].Low)
	if i == 0 {
		return hl
	}
	prev := bars[i-1].Close
	hc := bars[i].High.Sub(prev).Abs()
	lc := bars[i].Low.Sub(prev).Abs()
	return decimal.Max(hl, hc, lc)
}
