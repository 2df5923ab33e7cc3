package marketdata

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateSeries checks that the series is non-empty, every bar is valid and
// dates are strictly increasing. The engines index into a validated series by
// position and never re-sort it.
func ValidateSeries(bars []PriceBar) error {
	if len(bars) == 0 {
		return ErrEmptySeries
	}
	for i, b := range bars {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bar %d: %w", i, err)
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("%w: bar %d (%s) not after bar %d (%s)",
				ErrUnorderedBars, i, b.Date.Format("2006-01-02"), i-1, bars[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// CheckIndex returns ErrIndexOutOfRange unless 0 <= i < len(bars).
func CheckIndex(bars []PriceBar, i int) error {
	if i < 0 || i >= len(bars) {
		return fmt.Errorf("%w: index %d, length %d", ErrIndexOutOfRange, i, len(bars))
	}
	return nil
}

// Closes extracts the close column.
func Closes(bars []PriceBar) []decimal.Decimal {
	out := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
