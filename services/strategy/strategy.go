// Package strategy defines the trading-signal abstraction the backtest
// engine drives. A strategy inspects bars up to and including the current
// index and answers Buy, Sell or Hold; crossings are edge-triggered by
// comparing the current indicator relationship against the prior bar's, so a
// persisting condition never re-emits the same signal.
package strategy

import (
	"errors"

	"strategy-lab/services/marketdata"
)

// Signal is a trading decision for a single bar.
type Signal int

const (
	Hold Signal = iota
	Buy
	Sell
)

func (s Signal) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Strategy converts indicator state at a bar index into a signal.
//
// Evaluate must return Hold for every index below WarmupPeriod and must not
// read bars beyond the given index.
type Strategy interface {
	Name() string
	WarmupPeriod() int
	Evaluate(bars []marketdata.PriceBar, index int) Signal
}

var ErrInvalidParams = errors.New("strategy: invalid parameters")
