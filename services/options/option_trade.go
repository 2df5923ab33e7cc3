package options

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"strategy-lab/services/engine"
	"strategy-lab/services/marketdata"
)

// OptionStatus tracks the irreversible lifecycle of one option leg.
type OptionStatus int

const (
	OptionOpen OptionStatus = iota
	OptionClosed
	OptionClosedExpired
	OptionClosedAssigned
)

func (s OptionStatus) String() string {
	switch s {
	case OptionClosed:
		return "CLOSED"
	case OptionClosedExpired:
		return "CLOSED_EXPIRED"
	case OptionClosedAssigned:
		return "CLOSED_ASSIGNED"
	default:
		return "OPEN"
	}
}

// DefaultMultiplier is the standard equity option contract multiplier.
const DefaultMultiplier = 100

// OptionTrade is one leg from entry to settlement.
type OptionTrade struct {
	Type       OptionType       `json:"type"`
	Direction  engine.Direction `json:"direction"`
	Strike     decimal.Decimal  `json:"strike"`
	Expiration time.Time        `json:"expiration"`
	EntryDate  time.Time        `json:"entry_date"`
	Premium    decimal.Decimal  `json:"premium"`
	Contracts  int64            `json:"contracts"`
	Multiplier int64            `json:"multiplier"`
	Status     OptionStatus     `json:"status"`
	ExitDate   time.Time        `json:"exit_date"`
	ExitValue  decimal.Decimal  `json:"exit_value"`
}

// NewOptionTrade opens a leg at the given premium per share.
func NewOptionTrade(typ OptionType, direction engine.Direction, strike decimal.Decimal, expiration, entryDate time.Time, premium decimal.Decimal, contracts int64) (*OptionTrade, error) {
	if contracts <= 0 {
		return nil, fmt.Errorf("options: contract count must be positive, got %d", contracts)
	}
	if strike.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("options: strike must be positive, got %s", strike)
	}
	if premium.IsNegative() {
		return nil, fmt.Errorf("options: premium must not be negative, got %s", premium)
	}
	return &OptionTrade{
		Type:       typ,
		Direction:  direction,
		Strike:     strike,
		Expiration: expiration,
		EntryDate:  entryDate,
		Premium:    premium,
		Contracts:  contracts,
		Multiplier: DefaultMultiplier,
		Status:     OptionOpen,
	}, nil
}

// CloseAt settles the leg at the given per-share value with the given
// terminal status. A second close fails with engine.ErrTradeClosed.
func (t *OptionTrade) CloseAt(exitDate time.Time, exitValue decimal.Decimal, status OptionStatus) error {
	if t.Status != OptionOpen {
		return engine.ErrTradeClosed
	}
	if status == OptionOpen {
		return fmt.Errorf("options: cannot close leg into OPEN status")
	}
	t.ExitDate = exitDate
	t.ExitValue = exitValue
	t.Status = status
	return nil
}

// Notional is premium x contracts x multiplier.
func (t *OptionTrade) Notional(perShare decimal.Decimal) decimal.Decimal {
	return perShare.Mul(decimal.NewFromInt(t.Contracts)).Mul(decimal.NewFromInt(t.Multiplier))
}

// ProfitLoss of a settled leg: value change times size, signed by
// direction. Zero while open.
func (t *OptionTrade) ProfitLoss() decimal.Decimal {
	if t.Status == OptionOpen {
		return decimal.Zero
	}
	move := t.ExitValue.Sub(t.Premium)
	if t.Direction == engine.Short {
		move = move.Neg()
	}
	return t.Notional(move)
}

// ReturnPct is the signed value change over the entry premium as a
// percentage.
func (t *OptionTrade) ReturnPct() decimal.Decimal {
	if t.Status == OptionOpen || t.Premium.IsZero() {
		return decimal.Zero
	}
	move := t.ExitValue.Sub(t.Premium)
	if t.Direction == engine.Short {
		move = move.Neg()
	}
	return move.DivRound(t.Premium, marketdata.CalcScale).Mul(decimal.NewFromInt(100))
}

// IsWin reports strictly positive P/L; additionally, a short leg that
// expired worthless is a win by definition even when the collected premium
// was zero.
func (t *OptionTrade) IsWin() bool {
	if t.ProfitLoss().IsPositive() {
		return true
	}
	return t.Direction == engine.Short && t.Status == OptionClosedExpired && t.ExitValue.IsZero()
}
