package options

import (
	"math"

	"strategy-lab/services/marketdata"
)

const (
	// DefaultVolatilityLookback is the default number of daily log returns
	// fed into the estimator.
	DefaultVolatilityLookback = 20

	// volatilityFloor keeps degenerate flat-price windows from producing a
	// zero-volatility pricing input.
	volatilityFloor = 0.05

	tradingDaysPerYear = 252
)

// HistoricalVolatility estimates annualized volatility as the population
// standard deviation of log close returns over lookback bars ending at
// endIndex, scaled by sqrt(252). With fewer than 2 returns available, or a
// perfectly flat window, the floor is returned.
func HistoricalVolatility(bars []marketdata.PriceBar, endIndex, lookback int) (float64, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return 0, err
	}
	if lookback <= 0 {
		lookback = DefaultVolatilityLookback
	}
	start := endIndex - lookback
	if start < 0 {
		start = 0
	}
	returns := make([]float64, 0, endIndex-start)
	for i := start + 1; i <= endIndex; i++ {
		prev := bars[i-1].Close.InexactFloat64()
		cur := bars[i].Close.InexactFloat64()
		if prev <= 0 || cur <= 0 {
			continue
		}
		returns = append(returns, math.Log(cur/prev))
	}
	if len(returns) < 2 {
		return volatilityFloor, nil
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	vol := math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
	if vol < volatilityFloor {
		return volatilityFloor, nil
	}
	return vol, nil
}
