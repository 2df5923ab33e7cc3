package indicators

import (
	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// FibonacciLevels holds retracement levels between the window's extremes.
type FibonacciLevels struct {
	High     decimal.Decimal
	Low      decimal.Decimal
	Level236 decimal.Decimal
	Level382 decimal.Decimal
	Level500 decimal.Decimal
	Level618 decimal.Decimal
	Level786 decimal.Decimal
}

var fibRatios = []decimal.Decimal{
	decimal.NewFromFloat(0.236),
	decimal.NewFromFloat(0.382),
	decimal.NewFromFloat(0.5),
	decimal.NewFromFloat(0.618),
	decimal.NewFromFloat(0.786),
}

// Fibonacci returns retracement levels measured down from the highest high
// over lookback bars ending at endIndex.
func Fibonacci(bars []marketdata.PriceBar, endIndex, lookback int) (FibonacciLevels, error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return FibonacciLevels{}, err
	}
	high, low := highLowRange(bars, endIndex, lookback)
	span := high.Sub(low)
	at := func(r decimal.Decimal) decimal.Decimal {
		return high.Sub(span.Mul(r)).Round(calcScale)
	}
	return FibonacciLevels{
		High:     high,
		Low:      low,
		Level236: at(fibRatios[0]),
		Level382: at(fibRatios[1]),
		Level500: at(fibRatios[2]),
		Level618: at(fibRatios[3]),
		Level786: at(fibRatios[4]),
	}, nil
}

// SupportResistance returns the rolling support (lowest low) and resistance
// (highest high) over lookback bars ending at endIndex.
func SupportResistance(bars []marketdata.PriceBar, endIndex, lookback int) (support, resistance decimal.Decimal, err error) {
	if err := marketdata.CheckIndex(bars, endIndex); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	high, low := highLowRange(bars, endIndex, lookback)
	return low, high, nil
}
