package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"strategy-lab/services/metrics"
)

// BacktestResult is the frozen outcome of one run: identifiers, capital,
// the closed-trade list, the per-bar equity curve and the derived summary.
// It is built incrementally during the run and not mutated afterwards.
type BacktestResult struct {
	RunID          string            `json:"run_id"`
	StrategyName   string            `json:"strategy_name"`
	InitialCapital decimal.Decimal   `json:"initial_capital"`
	FinalCapital   decimal.Decimal   `json:"final_capital"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	Trades         []Trade           `json:"trades"`
	EquityCurve    []decimal.Decimal `json:"equity_curve"`
	Summary        metrics.Summary   `json:"summary"`
}
