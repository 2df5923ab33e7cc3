package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"strategy-lab/services/metrics"
)

// Config holds the run parameters shared by the equity and options engines.
// No environment or file access happens here; callers construct it
// explicitly.
type Config struct {
	InitialCapital     decimal.Decimal
	Commission         decimal.Decimal
	TradingDaysPerYear int
}

// DefaultConfig: 10,000 starting capital, zero commission, 252 trading days.
func DefaultConfig() Config {
	return Config{
		InitialCapital:     decimal.NewFromInt(10000),
		Commission:         decimal.Zero,
		TradingDaysPerYear: metrics.DefaultTradingDaysPerYear,
	}
}

func (c Config) validate() error {
	if c.InitialCapital.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("engine: initial capital must be positive, got %s", c.InitialCapital)
	}
	if c.Commission.IsNegative() {
		return fmt.Errorf("engine: commission must not be negative, got %s", c.Commission)
	}
	if c.TradingDaysPerYear <= 0 {
		return fmt.Errorf("engine: trading days per year must be positive, got %d", c.TradingDaysPerYear)
	}
	return nil
}
