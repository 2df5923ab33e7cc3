package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"strategy-lab/services/options"
	"strategy-lab/services/strategy"
)

func (s StrategySpec) intParam(name string, fallback int) int {
	if v, ok := s.Params[name]; ok {
		return int(v)
	}
	return fallback
}

func (s StrategySpec) decParam(name string, fallback float64) decimal.Decimal {
	if v, ok := s.Params[name]; ok {
		return decimal.NewFromFloat(v)
	}
	return decimal.NewFromFloat(fallback)
}

// buildStrategy maps a wire spec onto a signal strategy. Parameter defaults
// follow the common textbook settings for each variant.
func buildStrategy(spec StrategySpec) (strategy.Strategy, error) {
	switch spec.Type {
	case "sma_crossover":
		return strategy.NewSMACrossover(spec.intParam("short_period", 10), spec.intParam("long_period", 30))
	case "ema_crossover":
		return strategy.NewEMACrossover(spec.intParam("short_period", 12), spec.intParam("long_period", 26))
	case "rsi":
		return strategy.NewRSIStrategy(spec.intParam("period", 14),
			spec.decParam("oversold", 30), spec.decParam("overbought", 70))
	case "macd":
		return strategy.NewMACDStrategy(spec.intParam("fast_period", 12),
			spec.intParam("slow_period", 26), spec.intParam("signal_period", 9))
	case "bollinger":
		return strategy.NewBollingerStrategy(spec.intParam("period", 20), spec.decParam("width", 2))
	default:
		return nil, fmt.Errorf("unknown strategy type %q", spec.Type)
	}
}

// buildOptionsStrategy maps a wire spec onto an options strategy.
func buildOptionsStrategy(spec StrategySpec) (options.OptionsStrategy, error) {
	switch spec.Type {
	case "covered_call":
		return options.NewCoveredCall(
			spec.decParam("otm_pct", 0.05),
			spec.intParam("expiry_days", 30),
			spec.intParam("baseline_period", 20),
			spec.decParam("exit_threshold", 0.02))
	case "iron_condor":
		return options.NewIronCondor(
			spec.decParam("body_pct", 0.05),
			spec.decParam("wing_pct", 0.05),
			spec.intParam("expiry_days", 30),
			spec.intParam("baseline_period", 20),
			spec.decParam("exit_threshold", 0.02))
	default:
		return nil, fmt.Errorf("unknown options strategy type %q", spec.Type)
	}
}
