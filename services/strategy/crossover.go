package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"strategy-lab/services/indicators"
	"strategy-lab/services/marketdata"
)

// SMACrossover buys when the short SMA crosses above the long SMA and sells
// when it crosses back below.
type SMACrossover struct {
	shortPeriod int
	longPeriod  int
}

func NewSMACrossover(shortPeriod, longPeriod int) (*SMACrossover, error) {
	if shortPeriod <= 0 || longPeriod <= 0 {
		return nil, fmt.Errorf("%w: periods must be positive, got %d/%d", ErrInvalidParams, shortPeriod, longPeriod)
	}
	if shortPeriod >= longPeriod {
		return nil, fmt.Errorf("%w: short period %d must be below long period %d", ErrInvalidParams, shortPeriod, longPeriod)
	}
	return &SMACrossover{shortPeriod: shortPeriod, longPeriod: longPeriod}, nil
}

func (s *SMACrossover) Name() string {
	return fmt.Sprintf("SMA Crossover (%d/%d)", s.shortPeriod, s.longPeriod)
}

// WarmupPeriod is the first index at which both averages cover a full window
// and a prior-bar relationship exists.
func (s *SMACrossover) WarmupPeriod() int { return s.longPeriod }

func (s *SMACrossover) Evaluate(bars []marketdata.PriceBar, index int) Signal {
	if index < s.WarmupPeriod() {
		return Hold
	}
	nowAbove, err := s.shortAboveLong(bars, index)
	if err != nil {
		return Hold
	}
	prevAbove, err := s.shortAboveLong(bars, index-1)
	if err != nil {
		return Hold
	}
	switch {
	case nowAbove && !prevAbove:
		return Buy
	case !nowAbove && prevAbove:
		return Sell
	default:
		return Hold
	}
}

func (s *SMACrossover) shortAboveLong(bars []marketdata.PriceBar, i int) (bool, error) {
	short, err := indicators.SMA(bars, i, s.shortPeriod)
	if err != nil {
		return false, err
	}
	long, err := indicators.SMA(bars, i, s.longPeriod)
	if err != nil {
		return false, err
	}
	return short.GreaterThan(long), nil
}

// EMACrossover is the exponential twin of SMACrossover.
type EMACrossover struct {
	shortPeriod int
	longPeriod  int
}

func NewEMACrossover(shortPeriod, longPeriod int) (*EMACrossover, error) {
	if shortPeriod <= 0 || longPeriod <= 0 {
		return nil, fmt.Errorf("%w: periods must be positive, got %d/%d", ErrInvalidParams, shortPeriod, longPeriod)
	}
	if shortPeriod >= longPeriod {
		return nil, fmt.Errorf("%w: short period %d must be below long period %d", ErrInvalidParams, shortPeriod, longPeriod)
	}
	return &EMACrossover{shortPeriod: shortPeriod, longPeriod: longPeriod}, nil
}

func (s *EMACrossover) Name() string {
	return fmt.Sprintf("EMA Crossover (%d/%d)", s.shortPeriod, s.longPeriod)
}

func (s *EMACrossover) WarmupPeriod() int { return s.longPeriod }

func (s *EMACrossover) Evaluate(bars []marketdata.PriceBar, index int) Signal {
	if index < s.WarmupPeriod() {
		return Hold
	}
	now, err := s.spread(bars, index)
	if err != nil {
		return Hold
	}
	prev, err := s.spread(bars, index-1)
	if err != nil {
		return Hold
	}
	nowAbove := now.GreaterThan(decimal.Zero)
	prevAbove := prev.GreaterThan(decimal.Zero)
	switch {
	case nowAbove && !prevAbove:
		return Buy
	case !nowAbove && prevAbove:
		return Sell
	default:
		return Hold
	}
}

func (s *EMACrossover) spread(bars []marketdata.PriceBar, i int) (decimal.Decimal, error) {
	short, err := indicators.EMA(bars, i, s.shortPeriod)
	if err != nil {
		return decimal.Zero, err
	}
	long, err := indicators.EMA(bars, i, s.longPeriod)
	if err != nil {
		return decimal.Zero, err
	}
	return short.Sub(long), nil
}
