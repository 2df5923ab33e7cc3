package indicators

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestADXWarmupIsZero(t *testing.T) {
	bars := rangeBars(5, 10, 11, 9)
	got, err := ADX(bars, 4, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.ADX.IsZero() || !got.PlusDI.IsZero() || !got.MinusDI.IsZero() {
		t.Fatalf("warmup ADX should be zeros, got %+v", got)
	}
}

func TestADXUptrendFavorsPlusDI(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = float64(100 + 2*i)
	}
	bars := barsFromCloses(closes...)
	for i := range bars {
		bars[i].High = bars[i].Close.Add(decimal.NewFromInt(1))
		bars[i].Low = bars[i].Close.Sub(decimal.NewFromInt(1))
	}
	got, _ := ADX(bars, 39, 14)
	if !got.PlusDI.GreaterThan(got.MinusDI) {
		t.Fatalf("uptrend should have +DI %s > -DI %s", got.PlusDI, got.MinusDI)
	}
	if got.ADX.IsNegative() || got.ADX.GreaterThan(decimal.NewFromInt(100)) {
		t.Fatalf("ADX out of bounds: %s", got.ADX)
	}
}

func TestParabolicSARStaysBelowRisingPrices(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = float64(100 + 3*i)
	}
	bars := barsFromCloses(closes...)
	for i := range bars {
		bars[i].High = bars[i].Close.Add(decimal.NewFromInt(1))
		bars[i].Low = bars[i].Close.Sub(decimal.NewFromInt(1))
	}
	sar, err := ParabolicSAR(bars, 19, decimal.NewFromFloat(0.02), decimal.NewFromFloat(0.2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sar.LessThan(bars[19].Low) {
		t.Fatalf("SAR %s should trail below the lows (%s)", sar, bars[19].Low)
	}
}

func TestIchimokuFlatSeries(t *testing.T) {
	bars := barsFromCloses(10, 10, 10, 10, 10)
	got, err := Ichimoku(bars, 4, 9, 26, 52)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ten := decimal.NewFromInt(10)
	for name, v := range map[string]decimal.Decimal{
		"tenkan": got.Tenkan, "kijun": got.Kijun,
		"senkouA": got.SenkouA, "senkouB": got.SenkouB, "chikou": got.Chikou,
	} {
		if !v.Equal(ten) {
			t.Fatalf("%s = %s, want 10", name, v)
		}
	}
}

func TestIchimokuTenkanIsWindowMidpoint(t *testing.T) {
	bars := rangeBars(12, 10, 14, 6)
	got, _ := Ichimoku(bars, 11, 9, 26, 52)
	if !got.Tenkan.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("tenkan = %s, want midpoint 10", got.Tenkan)
	}
}
