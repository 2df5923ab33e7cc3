package marketdata

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func flatBar(n int, price float64) PriceBar {
	p := decimal.NewFromFloat(price)
	return PriceBar{Date: day(n), Open: p, High: p, Low: p, Close: p, AdjClose: p, Volume: 1000}
}

func TestValidateRejectsNegativeVolume(t *testing.T) {
	b := flatBar(0, 10)
	b.Volume = -1
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for negative volume")
	}
}

func TestValidateRejectsCloseOutsideRange(t *testing.T) {
	b := flatBar(0, 10)
	b.Close = decimal.NewFromInt(11)
	if err := b.Validate(); err == nil {
		t.Fatal("expected error for close above high")
	}
}

func TestValidateSeriesRejectsEmpty(t *testing.T) {
	if err := ValidateSeries(nil); !errors.Is(err, ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
}

func TestValidateSeriesRejectsUnordered(t *testing.T) {
	bars := []PriceBar{flatBar(1, 10), flatBar(0, 10)}
	if err := ValidateSeries(bars); !errors.Is(err, ErrUnorderedBars) {
		t.Fatalf("expected ErrUnorderedBars, got %v", err)
	}
}

func TestValidateSeriesRejectsDuplicateDates(t *testing.T) {
	bars := []PriceBar{flatBar(0, 10), flatBar(0, 11)}
	if err := ValidateSeries(bars); !errors.Is(err, ErrUnorderedBars) {
		t.Fatalf("expected ErrUnorderedBars, got %v", err)
	}
}

func TestCheckIndex(t *testing.T) {
	bars := []PriceBar{flatBar(0, 10)}
	if err := CheckIndex(bars, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckIndex(bars, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := CheckIndex(bars, -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestTypicalPrice(t *testing.T) {
	b := PriceBar{
		Date:   day(0),
		Open:   decimal.NewFromInt(10),
		High:   decimal.NewFromInt(12),
		Low:    decimal.NewFromInt(9),
		Close:  decimal.NewFromInt(12),
		Volume: 1,
	}
	if got := b.TypicalPrice(); !got.Equal(decimal.NewFromInt(11)) {
		t.Fatalf("typical price = %s, want 11", got)
	}
}
