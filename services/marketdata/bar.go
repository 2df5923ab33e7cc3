// Package marketdata holds the immutable daily price bar model consumed by
// the indicator library and the backtest engines.
package marketdata

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptySeries     = errors.New("marketdata: empty bar series")
	ErrUnorderedBars   = errors.New("marketdata: bars not in strictly increasing date order")
	ErrIndexOutOfRange = errors.New("marketdata: bar index out of range")
)

// PriceBar is one OHLCV observation for a single trading day. Bars are value
// types: built once at load time and never mutated afterwards.
type PriceBar struct {
	Date     time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	AdjClose decimal.Decimal
	Volume   int64
}

// Validate checks per-bar consistency: positive prices, high >= low,
// open/close within [low, high], non-negative volume.
func (b PriceBar) Validate() error {
	if b.Date.IsZero() {
		return fmt.Errorf("marketdata: bar has zero date")
	}
	if b.Volume < 0 {
		return fmt.Errorf("marketdata: bar %s has negative volume %d", b.Date.Format("2006-01-02"), b.Volume)
	}
	for _, p := range []decimal.Decimal{b.Open, b.High, b.Low, b.Close} {
		if p.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("marketdata: bar %s has non-positive price", b.Date.Format("2006-01-02"))
		}
	}
	if b.High.LessThan(b.Low) {
		return fmt.Errorf("marketdata: bar %s has high %s below low %s", b.Date.Format("2006-01-02"), b.High, b.Low)
	}
	if b.Open.LessThan(b.Low) || b.Open.GreaterThan(b.High) {
		return fmt.Errorf("marketdata: bar %s open %s outside [low, high]", b.Date.Format("2006-01-02"), b.Open)
	}
	if b.Close.LessThan(b.Low) || b.Close.GreaterThan(b.High) {
		return fmt.Errorf("marketdata: bar %s close %s outside [low, high]", b.Date.Format("2006-01-02"), b.Close)
	}
	return nil
}

// TypicalPrice returns (high + low + close) / 3.
func (b PriceBar) TypicalPrice() decimal.Decimal {
	return b.High.Add(b.Low).Add(b.Close).DivRound(decimal.NewFromInt(3), CalcScale)
}

// CalcScale is the internal calculation scale used for iterative indicator
// and trade arithmetic. Display rounding (2 places) happens only at result
// boundaries.
const CalcScale = 12
