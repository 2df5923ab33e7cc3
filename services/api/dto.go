package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"strategy-lab/services/engine"
	"strategy-lab/services/marketdata"
	"strategy-lab/services/metrics"
	"strategy-lab/services/options"
)

const dateLayout = "2006-01-02"

// BarRow is one daily bar on the wire.
type BarRow struct {
	Date     string          `json:"date" binding:"required"`
	Open     decimal.Decimal `json:"open"`
	High     decimal.Decimal `json:"high"`
	Low      decimal.Decimal `json:"low"`
	Close    decimal.Decimal `json:"close"`
	AdjClose decimal.Decimal `json:"adj_close"`
	Volume   int64           `json:"volume"`
}

// StrategySpec selects a strategy variant by type name plus numeric
// parameters.
type StrategySpec struct {
	Type   string             `json:"type" binding:"required"`
	Params map[string]float64 `json:"params"`
}

// EquityRunRequest drives one equity backtest.
type EquityRunRequest struct {
	Bars           []BarRow        `json:"bars" binding:"required"`
	Strategy       StrategySpec    `json:"strategy" binding:"required"`
	InitialCapital decimal.Decimal `json:"initial_capital"`
	Commission     decimal.Decimal `json:"commission"`
}

// OptionsRunRequest drives one options backtest.
type OptionsRunRequest struct {
	Bars           []BarRow        `json:"bars" binding:"required"`
	Strategy       StrategySpec    `json:"strategy" binding:"required"`
	InitialCapital decimal.Decimal `json:"initial_capital"`
	Commission     decimal.Decimal `json:"commission"`
	RiskFreeRate   float64         `json:"risk_free_rate"`
	VolLookback    int             `json:"vol_lookback"`
}

// EquityRunResponse wraps the engine result.
type EquityRunResponse struct {
	Result *engine.BacktestResult `json:"result,omitempty"`
	Error  *APIError              `json:"error,omitempty"`
}

// OptionsRunResponse wraps the options engine result.
type OptionsRunResponse struct {
	Result *options.Result `json:"result,omitempty"`
	Error  *APIError       `json:"error,omitempty"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status             string `json:"status"`
	TradingDaysPerYear int    `json:"trading_days_per_year"`
}

func toBars(rows []BarRow) ([]marketdata.PriceBar, error) {
	bars := make([]marketdata.PriceBar, len(rows))
	for i, r := range rows {
		date, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return nil, fmt.Errorf("bar %d: bad date %q: %w", i, r.Date, err)
		}
		adj := r.AdjClose
		if adj.IsZero() {
			adj = r.Close
		}
		bars[i] = marketdata.PriceBar{
			Date:     date,
			Open:     r.Open,
			High:     r.High,
			Low:      r.Low,
			Close:    r.Close,
			AdjClose: adj,
			Volume:   r.Volume,
		}
	}
	return bars, nil
}

func toConfig(initialCapital, commission decimal.Decimal) engine.Config {
	cfg := engine.DefaultConfig()
	if initialCapital.IsPositive() {
		cfg.InitialCapital = initialCapital
	}
	if !commission.IsZero() {
		cfg.Commission = commission
	}
	cfg.TradingDaysPerYear = metrics.DefaultTradingDaysPerYear
	return cfg
}
