// Package metrics derives performance statistics from a finished run: the
// closed-trade outcomes and the equity curve. Open positions never reach
// this package, so partial state cannot contaminate the numbers.
package metrics

import (
	"math"

	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// DefaultTradingDaysPerYear annualizes the Sharpe ratio.
const DefaultTradingDaysPerYear = 252

// ProfitFactorCap is reported when there is gross profit but zero gross
// loss.
var ProfitFactorCap = decimal.NewFromFloat(999.99)

var hundred = decimal.NewFromInt(100)

// TradeOutcome is the metric-relevant residue of one closed trade. Win is
// carried explicitly because the options engine counts a short leg expiring
// worthless as a win regardless of the price path.
type TradeOutcome struct {
	ProfitLoss decimal.Decimal
	Win        bool
}

// Summary is the full metric set for a run, display-rounded to 2 places.
type Summary struct {
	TotalReturnPct decimal.Decimal `json:"total_return_pct"`
	MaxDrawdownPct decimal.Decimal `json:"max_drawdown_pct"`
	SharpeRatio    decimal.Decimal `json:"sharpe_ratio"`
	ProfitFactor   decimal.Decimal `json:"profit_factor"`
	WinRatePct     decimal.Decimal `json:"win_rate_pct"`
	TradeCount     int             `json:"trade_count"`
	Wins           int             `json:"wins"`
	Losses         int             `json:"losses"`
	GrossProfit    decimal.Decimal `json:"gross_profit"`
	GrossLoss      decimal.Decimal `json:"gross_loss"`
}

// Compute builds the summary from initial/final capital, closed-trade
// outcomes and the per-bar equity curve.
func Compute(initial, final decimal.Decimal, outcomes []TradeOutcome, equity []decimal.Decimal, tradingDaysPerYear int) Summary {
	if tradingDaysPerYear <= 0 {
		tradingDaysPerYear = DefaultTradingDaysPerYear
	}

	s := Summary{TradeCount: len(outcomes)}

	if !initial.IsZero() {
		s.TotalReturnPct = final.Sub(initial).DivRound(initial, marketdata.CalcScale).Mul(hundred)
	}

	grossProfit := decimal.Zero
	grossLoss := decimal.Zero
	wins := 0
	for _, o := range outcomes {
		if o.ProfitLoss.IsPositive() {
			grossProfit = grossProfit.Add(o.ProfitLoss)
		} else {
			grossLoss = grossLoss.Add(o.ProfitLoss.Neg())
		}
		if o.Win {
			wins++
		}
	}
	s.GrossProfit = grossProfit.Round(2)
	s.GrossLoss = grossLoss.Round(2)
	s.Wins = wins
	s.Losses = len(outcomes) - wins

	s.ProfitFactor = profitFactor(grossProfit, grossLoss)
	if len(outcomes) > 0 {
		s.WinRatePct = decimal.NewFromInt(int64(wins)).
			DivRound(decimal.NewFromInt(int64(len(outcomes))), marketdata.CalcScale).
			Mul(hundred).Round(2)
	}
	s.MaxDrawdownPct = MaxDrawdown(equity).Round(2)
	s.SharpeRatio = SharpeRatio(equity, tradingDaysPerYear).Round(2)
	s.TotalReturnPct = s.TotalReturnPct.Round(2)
	return s
}

func profitFactor(grossProfit, grossLoss decimal.Decimal) decimal.Decimal {
	if !grossProfit.IsPositive() {
		return decimal.Zero
	}
	if grossLoss.IsZero() {
		return ProfitFactorCap
	}
	return grossProfit.DivRound(grossLoss, marketdata.CalcScale).Round(2)
}

// MaxDrawdown returns the maximum percentage decline from the running peak
// of the equity curve, in [0, 100].
func MaxDrawdown(equity []decimal.Decimal) decimal.Decimal {
	if len(equity) == 0 {
		return decimal.Zero
	}
	peak := equity[0]
	maxDD := decimal.Zero
	for _, eq := range equity {
		if eq.GreaterThan(peak) {
			peak = eq
		}
		if peak.IsPositive() {
			dd := peak.Sub(eq).DivRound(peak, marketdata.CalcScale).Mul(hundred)
			if dd.GreaterThan(maxDD) {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio is the mean daily equity return over its population standard
// deviation, annualized by the square root of tradingDaysPerYear. Fewer than
// 2 equity points, or zero deviation, yields 0.
func SharpeRatio(equity []decimal.Decimal, tradingDaysPerYear int) decimal.Decimal {
	if len(equity) < 2 {
		return decimal.Zero
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1]
		if prev.IsZero() {
			returns = append(returns, 0)
			continue
		}
		r := equity[i].Sub(prev).DivRound(prev, marketdata.CalcScale)
		returns = append(returns, r.InexactFloat64())
	}
	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))
	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	if variance == 0 {
		return decimal.Zero
	}
	sharpe := mean / math.Sqrt(variance) * math.Sqrt(float64(tradingDaysPerYear))
	return decimal.NewFromFloat(sharpe)
}
