package options

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"strategy-lab/services/engine"
	"strategy-lab/services/marketdata"
	"strategy-lab/services/metrics"
)

var ErrNilStrategy = errors.New("options: strategy is nil")

const hoursPerYear = 24 * 365

// Result is the frozen outcome of one options run.
type Result struct {
	RunID          string            `json:"run_id"`
	StrategyName   string            `json:"strategy_name"`
	InitialCapital decimal.Decimal   `json:"initial_capital"`
	FinalCapital   decimal.Decimal   `json:"final_capital"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	Trades         []OptionTrade     `json:"trades"`
	EquityCurve    []decimal.Decimal `json:"equity_curve"`
	Summary        metrics.Summary   `json:"summary"`
}

// Engine mirrors the equity engine's bar loop but manages 1-4 simultaneous
// option legs. Premiums come from the chain snapshot when one is supplied
// and the contract is quoted, from the theoretical pricer otherwise.
type Engine struct {
	cfg          engine.Config
	riskFreeRate float64
	volLookback  int
	chain        *OptionsChain
	logger       *zap.Logger
}

// New builds an options engine. chain may be nil; riskFreeRate is
// annualized.
func New(cfg engine.Config, riskFreeRate float64, volLookback int, chain *OptionsChain, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if volLookback <= 0 {
		volLookback = DefaultVolatilityLookback
	}
	return &Engine{cfg: cfg, riskFreeRate: riskFreeRate, volLookback: volLookback, chain: chain, logger: logger}
}

// Run walks the bars in order. Per bar: mark open legs to their theoretical
// value and append equity BEFORE acting; then settle legs whose expiration
// has arrived, apply the strategy's early-exit rule, or open a fresh set of
// legs when flat and past warmup. Legs still open after the last bar are
// force-closed at that bar's theoretical value.
func (e *Engine) Run(strat OptionsStrategy, bars []marketdata.PriceBar) (*Result, error) {
	if strat == nil {
		return nil, ErrNilStrategy
	}
	if err := marketdata.ValidateSeries(bars); err != nil {
		return nil, err
	}
	if e.cfg.InitialCapital.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("options: initial capital must be positive, got %s", e.cfg.InitialCapital)
	}

	runID := uuid.NewString()
	log := e.logger.With(zap.String("run_id", runID), zap.String("strategy", strat.Name()))
	log.Info("starting options backtest", zap.Int("bars", len(bars)))

	cash := e.cfg.InitialCapital
	var open []*OptionTrade
	closed := make([]OptionTrade, 0)
	equityCurve := make([]decimal.Decimal, 0, len(bars))

	for i, bar := range bars {
		equityCurve = append(equityCurve, e.markToMarket(cash, open, bars, i))

		if len(open) > 0 {
			var still []*OptionTrade
			for _, leg := range open {
				if !bar.Date.Before(leg.Expiration) {
					if err := e.settleExpired(leg, bar, &cash); err != nil {
						return nil, err
					}
					closed = append(closed, *leg)
					log.Debug("leg settled at expiry",
						zap.String("status", leg.Status.String()),
						zap.String("pnl", leg.ProfitLoss().String()))
					continue
				}
				still = append(still, leg)
			}
			open = still
		}

		if len(open) > 0 && strat.ShouldExit(bars, i) {
			for _, leg := range open {
				value := e.legValue(leg, bars, i)
				if err := e.closeLeg(leg, bar.Date, value, OptionClosed, &cash); err != nil {
					return nil, err
				}
				closed = append(closed, *leg)
			}
			log.Debug("early exit", zap.String("date", bar.Date.Format("2006-01-02")))
			open = nil
		}

		if len(open) == 0 && i >= strat.WarmupPeriod() && i < len(bars)-1 {
			specs := strat.OpenLegs(bars, i)
			if len(specs) > 4 {
				return nil, fmt.Errorf("options: strategy proposed %d legs, maximum is 4", len(specs))
			}
			for _, spec := range specs {
				leg, err := e.openLeg(spec, bars, i, &cash)
				if err != nil {
					return nil, err
				}
				open = append(open, leg)
			}
			if len(specs) > 0 {
				log.Debug("opened legs",
					zap.String("date", bar.Date.Format("2006-01-02")),
					zap.Int("count", len(specs)))
			}
		}
	}

	last := bars[len(bars)-1]
	for _, leg := range open {
		value := e.legValue(leg, bars, len(bars)-1)
		if err := e.closeLeg(leg, last.Date, value, OptionClosed, &cash); err != nil {
			return nil, err
		}
		closed = append(closed, *leg)
	}

	outcomes := make([]metrics.TradeOutcome, len(closed))
	for i, t := range closed {
		outcomes[i] = metrics.TradeOutcome{ProfitLoss: t.ProfitLoss(), Win: t.IsWin()}
	}

	result := &Result{
		RunID:          runID,
		StrategyName:   strat.Name(),
		InitialCapital: e.cfg.InitialCapital,
		FinalCapital:   cash,
		StartDate:      bars[0].Date,
		EndDate:        last.Date,
		Trades:         closed,
		EquityCurve:    equityCurve,
		Summary:        metrics.Compute(e.cfg.InitialCapital, cash, outcomes, equityCurve, e.cfg.TradingDaysPerYear),
	}
	log.Info("options backtest complete",
		zap.Int("trades", len(closed)),
		zap.String("final_capital", cash.String()))
	return result, nil
}

// markToMarket is cash plus the signed liquidation value of every open leg
// at bar i: long legs add their current value, short legs owe it.
func (e *Engine) markToMarket(cash decimal.Decimal, open []*OptionTrade, bars []marketdata.PriceBar, i int) decimal.Decimal {
	equity := cash
	for _, leg := range open {
		value := leg.Notional(e.legValue(leg, bars, i))
		if leg.Direction == engine.Long {
			equity = equity.Add(value)
		} else {
			equity = equity.Sub(value)
		}
	}
	return equity
}

func (e *Engine) openLeg(spec LegSpec, bars []marketdata.PriceBar, i int, cash *decimal.Decimal) (*OptionTrade, error) {
	premium := e.quotePremium(spec, bars, i)
	leg, err := NewOptionTrade(spec.Type, spec.Direction, spec.Strike, spec.Expiration, bars[i].Date, premium, spec.Contracts)
	if err != nil {
		return nil, fmt.Errorf("opening leg at bar %d: %w", i, err)
	}
	notional := leg.Notional(premium)
	if spec.Direction == engine.Long {
		*cash = cash.Sub(notional).Sub(e.cfg.Commission)
	} else {
		*cash = cash.Add(notional).Sub(e.cfg.Commission)
	}
	return leg, nil
}

func (e *Engine) closeLeg(leg *OptionTrade, date time.Time, value decimal.Decimal, status OptionStatus, cash *decimal.Decimal) error {
	if err := leg.CloseAt(date, value, status); err != nil {
		return fmt.Errorf("closing leg: %w", err)
	}
	notional := leg.Notional(value)
	if leg.Direction == engine.Long {
		*cash = cash.Add(notional).Sub(e.cfg.Commission)
	} else {
		*cash = cash.Sub(notional).Sub(e.cfg.Commission)
	}
	return nil
}

// settleExpired closes a leg at intrinsic value. A worthless expiry is
// CLOSED_EXPIRED; a short leg finishing in the money is CLOSED_ASSIGNED.
func (e *Engine) settleExpired(leg *OptionTrade, bar marketdata.PriceBar, cash *decimal.Decimal) error {
	intrinsic := decimal.NewFromFloat(IntrinsicValue(leg.Type, bar.Close.InexactFloat64(), leg.Strike.InexactFloat64())).Round(4)
	status := OptionClosedExpired
	if intrinsic.IsPositive() && leg.Direction == engine.Short {
		status = OptionClosedAssigned
	}
	return e.closeLeg(leg, bar.Date, intrinsic, status, cash)
}

// legValue prices a leg at bar i: chain quote when available, theoretical
// Black-Scholes on the historical-volatility estimate otherwise.
func (e *Engine) legValue(leg *OptionTrade, bars []marketdata.PriceBar, i int) decimal.Decimal {
	return e.premiumFor(leg.Type, leg.Strike, leg.Expiration, bars, i)
}

func (e *Engine) quotePremium(spec LegSpec, bars []marketdata.PriceBar, i int) decimal.Decimal {
	return e.premiumFor(spec.Type, spec.Strike, spec.Expiration, bars, i)
}

func (e *Engine) premiumFor(typ OptionType, strike decimal.Decimal, expiration time.Time, bars []marketdata.PriceBar, i int) decimal.Decimal {
	if e.chain != nil {
		if c, ok := e.chain.Find(typ, strike, expiration); ok {
			if mid := c.MidPrice(); mid.IsPositive() {
				return mid
			}
		}
	}
	vol, err := HistoricalVolatility(bars, i, e.volLookback)
	if err != nil {
		vol = volatilityFloor
	}
	tte := expiration.Sub(bars[i].Date).Hours() / hoursPerYear
	price := Price(typ, PricingInput{
		Spot:         bars[i].Close.InexactFloat64(),
		Strike:       strike.InexactFloat64(),
		TimeToExpiry: tte,
		RiskFreeRate: e.riskFreeRate,
		Volatility:   vol,
	})
	return decimal.NewFromFloat(price).Round(4)
}
