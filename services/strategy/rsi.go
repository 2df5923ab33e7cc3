package strategy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"strategy-lab/services/indicators"
	"strategy-lab/services/marketdata"
)

// RSIStrategy buys when RSI crosses up out of the oversold zone and sells
// when it crosses down out of the overbought zone. Level tests alone are not
// signals; the crossing has to happen between consecutive bars.
type RSIStrategy struct {
	period     int
	oversold   decimal.Decimal
	overbought decimal.Decimal
}

func NewRSIStrategy(period int, oversold, overbought decimal.Decimal) (*RSIStrategy, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParams, period)
	}
	if oversold.IsNegative() || overbought.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: thresholds must lie in [0,100]", ErrInvalidParams)
	}
	if oversold.GreaterThanOrEqual(overbought) {
		return nil, fmt.Errorf("%w: oversold %s must be below overbought %s", ErrInvalidParams, oversold, overbought)
	}
	return &RSIStrategy{period: period, oversold: oversold, overbought: overbought}, nil
}

func (s *RSIStrategy) Name() string {
	return fmt.Sprintf("RSI(%d) %s/%s", s.period, s.oversold, s.overbought)
}

// WarmupPeriod: the RSI needs period+1 bars for its seed averages, and the
// crossing test needs a defined value on the prior bar as well.
func (s *RSIStrategy) WarmupPeriod() int { return s.period + 1 }

func (s *RSIStrategy) Evaluate(bars []marketdata.PriceBar, index int) Signal {
	if index < s.WarmupPeriod() {
		return Hold
	}
	now, err := indicators.RSI(bars, index, s.period)
	if err != nil {
		return Hold
	}
	prev, err := indicators.RSI(bars, index-1, s.period)
	if err != nil {
		return Hold
	}
	switch {
	case prev.LessThan(s.oversold) && now.GreaterThanOrEqual(s.oversold):
		return Buy
	case prev.GreaterThan(s.overbought) && now.LessThanOrEqual(s.overbought):
		return Sell
	default:
		return Hold
	}
}
