package strategy

import (
	"fmt"

	"strategy-lab/services/indicators"
	"strategy-lab/services/marketdata"
)

// MACDStrategy buys when the MACD line crosses above its signal line and
// sells on the cross back below.
type MACDStrategy struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

func NewMACDStrategy(fastPeriod, slowPeriod, signalPeriod int) (*MACDStrategy, error) {
	if fastPeriod <= 0 || slowPeriod <= 0 || signalPeriod <= 0 {
		return nil, fmt.Errorf("%w: periods must be positive, got %d/%d/%d", ErrInvalidParams, fastPeriod, slowPeriod, signalPeriod)
	}
	if fastPeriod >= slowPeriod {
		return nil, fmt.Errorf("%w: fast period %d must be below slow period %d", ErrInvalidParams, fastPeriod, slowPeriod)
	}
	return &MACDStrategy{fastPeriod: fastPeriod, slowPeriod: slowPeriod, signalPeriod: signalPeriod}, nil
}

func (s *MACDStrategy) Name() string {
	return fmt.Sprintf("MACD (%d/%d/%d)", s.fastPeriod, s.slowPeriod, s.signalPeriod)
}

// WarmupPeriod: the signal line is only fully seeded once signalPeriod MACD
// line values exist past the slow EMA seed.
func (s *MACDStrategy) WarmupPeriod() int { return s.slowPeriod + s.signalPeriod }

func (s *MACDStrategy) Evaluate(bars []marketdata.PriceBar, index int) Signal {
	if index < s.WarmupPeriod() {
		return Hold
	}
	now, err := indicators.MACD(bars, index, s.fastPeriod, s.slowPeriod, s.signalPeriod)
	if err != nil {
		return Hold
	}
	prev, err := indicators.MACD(bars, index-1, s.fastPeriod, s.slowPeriod, s.signalPeriod)
	if err != nil {
		return Hold
	}
	nowAbove := now.Histogram.IsPositive()
	prevAbove := prev.Histogram.IsPositive()
	switch {
	case nowAbove && !prevAbove:
		return Buy
	case !nowAbove && prevAbove:
		return Sell
	default:
		return Hold
	}
}
