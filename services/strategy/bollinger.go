package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"strategy-lab/services/indicators"
	"strategy-lab/services/marketdata"
)

// BollingerStrategy buys when the close crosses back above the lower band
// after being below it, and sells when it crosses back below the upper band.
type BollingerStrategy struct {
	period int
	width  decimal.Decimal
}

func NewBollingerStrategy(period int, width decimal.Decimal) (*BollingerStrategy, error) {
	if period <= 1 {
		return nil, fmt.Errorf("%w: period must exceed 1, got %d", ErrInvalidParams, period)
	}
	if width.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: band width must be positive, got %s", ErrInvalidParams, width)
	}
	return &BollingerStrategy{period: period, width: width}, nil
}

func (s *BollingerStrategy) Name() string {
	return fmt.Sprintf("Bollinger (%d, %s)", s.period, s.width)
}

func (s *BollingerStrategy) WarmupPeriod() int { return s.period }

func (s *BollingerStrategy) Evaluate(bars []marketdata.PriceBar, index int) Signal {
	if index < s.WarmupPeriod() {
		return Hold
	}
	now, err := indicators.Bollinger(bars, index, s.period, s.width)
	if err != nil {
		return Hold
	}
	prev, err := indicators.Bollinger(bars, index-1, s.period, s.width)
	if err != nil {
		return Hold
	}
	closeNow := bars[index].Close
	closePrev := bars[index-1].Close
	switch {
	case closePrev.LessThan(prev.Lower) && closeNow.GreaterThanOrEqual(now.Lower):
		return Buy
	case closePrev.GreaterThan(prev.Upper) && closeNow.LessThanOrEqual(now.Upper):
		return Sell
	default:
		return Hold
	}
}
