package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
)

// ErrTradeClosed is returned when a closed trade is closed again. Hitting it
// means the engine's single-close invariant has been violated by the caller.
var ErrTradeClosed = errors.New("engine: trade already closed")

// Direction of a trade. The equity engine only opens long trades; the field
// exists so option legs share the same sign convention.
type Direction int

const (
	Long Direction = iota
	Short
)

func (d Direction) String() string {
	if d == Short {
		return "SHORT"
	}
	return "LONG"
}

// TradeStatus tracks the irreversible open -> closed lifecycle.
type TradeStatus int

const (
	StatusOpen TradeStatus = iota
	StatusClosed
)

// Trade is a single equity holding from entry to exit.
type Trade struct {
	Direction  Direction       `json:"direction"`
	EntryDate  time.Time       `json:"entry_date"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Shares     int64           `json:"shares"`
	Status     TradeStatus     `json:"status"`
	ExitDate   time.Time       `json:"exit_date"`
	ExitPrice  decimal.Decimal `json:"exit_price"`
}

// NewTrade opens a long or short trade at the given bar close.
func NewTrade(direction Direction, entryDate time.Time, entryPrice decimal.Decimal, shares int64) (*Trade, error) {
	if shares <= 0 {
		return nil, fmt.Errorf("engine: share count must be positive, got %d", shares)
	}
	if entryPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("engine: entry price must be positive, got %s", entryPrice)
	}
	return &Trade{
		Direction:  direction,
		EntryDate:  entryDate,
		EntryPrice: entryPrice,
		Shares:     shares,
		Status:     StatusOpen,
	}, nil
}

// Close transitions the trade to closed. Closing twice is a logic error.
func (t *Trade) Close(exitDate time.Time, exitPrice decimal.Decimal) error {
	if t.Status == StatusClosed {
		return ErrTradeClosed
	}
	t.ExitDate = exitDate
	t.ExitPrice = exitPrice
	t.Status = StatusClosed
	return nil
}

// ProfitLoss is the signed realized P/L of a closed trade; zero while open.
func (t *Trade) ProfitLoss() decimal.Decimal {
	if t.Status != StatusClosed {
		return decimal.Zero
	}
	move := t.ExitPrice.Sub(t.EntryPrice)
	if t.Direction == Short {
		move = move.Neg()
	}
	return move.Mul(decimal.NewFromInt(t.Shares))
}

// ReturnPct is the signed price change over the entry price as a percentage,
// at the internal calculation scale.
func (t *Trade) ReturnPct() decimal.Decimal {
	if t.Status != StatusClosed || t.EntryPrice.IsZero() {
		return decimal.Zero
	}
	move := t.ExitPrice.Sub(t.EntryPrice)
	if t.Direction == Short {
		move = move.Neg()
	}
	return move.DivRound(t.EntryPrice, marketdata.CalcScale).Mul(decimal.NewFromInt(100))
}

// IsWin reports strictly positive realized P/L.
func (t *Trade) IsWin() bool {
	return t.ProfitLoss().IsPositive()
}
