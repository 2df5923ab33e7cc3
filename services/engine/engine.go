// Package engine runs a strategy over a bar series and turns its signals
// into a single-position trade lifecycle and an equity curve. A run is a
// pure function of (strategy, bars, config): identical inputs reproduce
// identical cash, trades and equity exactly.
package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"strategy-lab/services/marketdata"
	"strategy-lab/services/metrics"
	"strategy-lab/services/strategy"
)

var ErrNilStrategy = errors.New("engine: strategy is nil")

// Engine drives equity backtests. Safe for concurrent Run calls: all run
// state lives in the run's own scope.
type Engine struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Run walks the bars in order. Per bar: append cash plus mark-to-market
// value of any open position at that bar's close to the equity curve, THEN
// act on the strategy's signal at the same close. A position still open
// after the last bar is force-closed at the final close so every opened
// trade ends up closed in the result.
func (e *Engine) Run(strat strategy.Strategy, bars []marketdata.PriceBar) (*BacktestResult, error) {
	if strat == nil {
		return nil, ErrNilStrategy
	}
	if err := e.cfg.validate(); err != nil {
		return nil, err
	}
	if err := marketdata.ValidateSeries(bars); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := e.logger.With(zap.String("run_id", runID), zap.String("strategy", strat.Name()))
	log.Info("starting equity backtest",
		zap.Int("bars", len(bars)),
		zap.String("initial_capital", e.cfg.InitialCapital.String()))

	cash := e.cfg.InitialCapital
	var open *Trade
	trades := make([]Trade, 0)
	equityCurve := make([]decimal.Decimal, 0, len(bars))

	for i, bar := range bars {
		equityCurve = append(equityCurve, markToMarket(cash, open, bar.Close))

		switch strat.Evaluate(bars, i) {
		case strategy.Buy:
			if open != nil {
				continue
			}
			shares := cash.Sub(e.cfg.Commission).DivRound(bar.Close, marketdata.CalcScale).Floor().IntPart()
			if shares <= 0 {
				continue
			}
			t, err := NewTrade(Long, bar.Date, bar.Close, shares)
			if err != nil {
				return nil, fmt.Errorf("opening trade at bar %d: %w", i, err)
			}
			cash = cash.Sub(bar.Close.Mul(decimal.NewFromInt(shares))).Sub(e.cfg.Commission)
			open = t
			log.Debug("opened position",
				zap.String("date", bar.Date.Format("2006-01-02")),
				zap.Int64("shares", shares),
				zap.String("price", bar.Close.String()))
		case strategy.Sell:
			if open == nil {
				continue
			}
			if err := open.Close(bar.Date, bar.Close); err != nil {
				return nil, fmt.Errorf("closing trade at bar %d: %w", i, err)
			}
			cash = cash.Add(bar.Close.Mul(decimal.NewFromInt(open.Shares))).Sub(e.cfg.Commission)
			trades = append(trades, *open)
			log.Debug("closed position",
				zap.String("date", bar.Date.Format("2006-01-02")),
				zap.String("pnl", open.ProfitLoss().String()))
			open = nil
		}
	}

	if open != nil {
		last := bars[len(bars)-1]
		if err := open.Close(last.Date, last.Close); err != nil {
			return nil, fmt.Errorf("force-closing trade: %w", err)
		}
		cash = cash.Add(last.Close.Mul(decimal.NewFromInt(open.Shares))).Sub(e.cfg.Commission)
		trades = append(trades, *open)
		log.Debug("force-closed position at final bar",
			zap.String("pnl", open.ProfitLoss().String()))
		open = nil
	}

	outcomes := make([]metrics.TradeOutcome, len(trades))
	for i, t := range trades {
		outcomes[i] = metrics.TradeOutcome{ProfitLoss: t.ProfitLoss(), Win: t.IsWin()}
	}

	result := &BacktestResult{
		RunID:          runID,
		StrategyName:   strat.Name(),
		InitialCapital: e.cfg.InitialCapital,
		FinalCapital:   cash,
		StartDate:      bars[0].Date,
		EndDate:        bars[len(bars)-1].Date,
		Trades:         trades,
		EquityCurve:    equityCurve,
		Summary:        metrics.Compute(e.cfg.InitialCapital, cash, outcomes, equityCurve, e.cfg.TradingDaysPerYear),
	}

	log.Info("equity backtest complete",
		zap.Int("trades", len(trades)),
		zap.String("final_capital", cash.String()))
	return result, nil
}

func markToMarket(cash decimal.Decimal, open *Trade, close decimal.Decimal) decimal.Decimal {
	if open == nil {
		return cash
	}
	return cash.Add(close.Mul(decimal.NewFromInt(open.Shares)))
}
