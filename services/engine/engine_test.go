package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"strategy-lab/services/marketdata"
	"strategy-lab/services/strategy"
)

func barsFromCloses(closes ...float64) []marketdata.PriceBar {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]marketdata.PriceBar, len(closes))
	for i, c := range closes {
		p := decimal.NewFromFloat(c)
		bars[i] = marketdata.PriceBar{
			Date: start.AddDate(0, 0, i), Open: p, High: p, Low: p, Close: p, AdjClose: p, Volume: 1000,
		}
	}
	return bars
}

// scriptedStrategy replays a fixed signal per index.
type scriptedStrategy struct {
	signals map[int]strategy.Signal
	warmup  int
}

func (s *scriptedStrategy) Name() string      { return "scripted" }
func (s *scriptedStrategy) WarmupPeriod() int { return s.warmup }
func (s *scriptedStrategy) Evaluate(bars []marketdata.PriceBar, i int) strategy.Signal {
	if i < s.warmup {
		return strategy.Hold
	}
	return s.signals[i]
}

func TestRunRejectsBadInput(t *testing.T) {
	eng := New(DefaultConfig(), nil)
	if _, err := eng.Run(nil, barsFromCloses(10)); !errors.Is(err, ErrNilStrategy) {
		t.Fatalf("expected ErrNilStrategy, got %v", err)
	}
	s := &scriptedStrategy{}
	if _, err := eng.Run(s, nil); !errors.Is(err, marketdata.ErrEmptySeries) {
		t.Fatalf("expected ErrEmptySeries, got %v", err)
	}
	cfg := DefaultConfig()
	cfg.InitialCapital = decimal.Zero
	if _, err := New(cfg, nil).Run(s, barsFromCloses(10)); err == nil {
		t.Fatal("expected error for non-positive capital")
	}
}

func TestFlatSeriesProducesNoTrades(t *testing.T) {
	bars := barsFromCloses(10, 10, 10, 10, 10, 10, 10, 10, 10, 10)
	s, err := strategy.NewSMACrossover(2, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := New(DefaultConfig(), nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Trades) != 0 {
		t.Fatalf("got %d trades, want 0", len(res.Trades))
	}
	if !res.FinalCapital.Equal(res.InitialCapital) {
		t.Fatalf("final capital %s, want %s", res.FinalCapital, res.InitialCapital)
	}
	if len(res.EquityCurve) != len(bars) {
		t.Fatalf("equity curve has %d points, want %d", len(res.EquityCurve), len(bars))
	}
	for i, eq := range res.EquityCurve {
		if !eq.Equal(res.InitialCapital) {
			t.Fatalf("equity[%d] = %s, want %s", i, eq, res.InitialCapital)
		}
	}
}

func TestSingleCrossForceClosedAtEnd(t *testing.T) {
	// short SMA crosses above long exactly once at bar 4, never crosses back
	bars := barsFromCloses(10, 10, 10, 10, 11, 12, 13, 14, 15, 16)
	s, _ := strategy.NewSMACrossover(2, 3)
	res, err := New(DefaultConfig(), nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(res.Trades))
	}
	tr := res.Trades[0]
	if tr.Status != StatusClosed {
		t.Fatal("trade must be closed in the result")
	}
	if !tr.EntryDate.Equal(bars[4].Date) {
		t.Fatalf("entry date %s, want %s", tr.EntryDate, bars[4].Date)
	}
	if !tr.EntryPrice.Equal(bars[4].Close) {
		t.Fatalf("entry price %s, want %s", tr.EntryPrice, bars[4].Close)
	}
	if !tr.ExitDate.Equal(bars[len(bars)-1].Date) {
		t.Fatalf("exit date %s, want final bar %s", tr.ExitDate, bars[len(bars)-1].Date)
	}
	if !tr.ExitPrice.Equal(bars[len(bars)-1].Close) {
		t.Fatalf("exit price %s, want final close %s", tr.ExitPrice, bars[len(bars)-1].Close)
	}
}

func TestCapitalConservationZeroCommission(t *testing.T) {
	bars := barsFromCloses(10, 10, 10, 10, 11, 12, 13, 10, 9, 11, 13, 15)
	s, _ := strategy.NewSMACrossover(2, 3)
	res, err := New(DefaultConfig(), nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := decimal.Zero
	for _, tr := range res.Trades {
		sum = sum.Add(tr.ProfitLoss())
	}
	want := res.InitialCapital.Add(sum)
	if !res.FinalCapital.Equal(want) {
		t.Fatalf("final capital %s, want initial + P/L = %s", res.FinalCapital, want)
	}
}

func TestFullInvestmentSizing(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Commission = decimal.NewFromInt(5)
	bars := barsFromCloses(10, 10, 10, 10, 11, 12, 13, 14)
	s, _ := strategy.NewSMACrossover(2, 3)
	res, err := New(cfg, nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(res.Trades))
	}
	tr := res.Trades[0]
	// shares = floor((10000-5)/11) = 908
	if tr.Shares != 908 {
		t.Fatalf("shares = %d, want 908", tr.Shares)
	}
	cost := tr.EntryPrice.Mul(decimal.NewFromInt(tr.Shares)).Add(cfg.Commission)
	if cost.GreaterThan(cfg.InitialCapital) {
		t.Fatalf("entry cost %s exceeds capital %s", cost, cfg.InitialCapital)
	}
}

func TestBuyWithInsufficientCashIsSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialCapital = decimal.NewFromInt(5) // below one share
	bars := barsFromCloses(10, 10, 10, 10, 11, 12, 13, 14)
	s, _ := strategy.NewSMACrossover(2, 3)
	res, err := New(cfg, nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Trades) != 0 {
		t.Fatalf("got %d trades, want 0", len(res.Trades))
	}
	if !res.FinalCapital.Equal(cfg.InitialCapital) {
		t.Fatalf("final capital %s, want untouched %s", res.FinalCapital, cfg.InitialCapital)
	}
}

func TestSinglePositionInvariant(t *testing.T) {
	// scripted double buy: the second must be ignored
	bars := barsFromCloses(10, 10, 10, 11, 12, 13, 14, 15)
	s := &scriptedStrategy{signals: map[int]strategy.Signal{
		2: strategy.Buy,
		4: strategy.Buy,
		6: strategy.Sell,
	}}
	res, err := New(DefaultConfig(), nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(res.Trades))
	}
	if !res.Trades[0].EntryPrice.Equal(bars[2].Close) {
		t.Fatalf("entry price %s, want the first buy's close %s", res.Trades[0].EntryPrice, bars[2].Close)
	}
}

func TestSellWithoutPositionIsIgnored(t *testing.T) {
	bars := barsFromCloses(10, 10, 10, 10, 10)
	s := &scriptedStrategy{signals: map[int]strategy.Signal{1: strategy.Sell}}
	res, err := New(DefaultConfig(), nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Trades) != 0 || !res.FinalCapital.Equal(res.InitialCapital) {
		t.Fatal("sell without a position must be a no-op")
	}
}

func TestEquityMarkedBeforeActing(t *testing.T) {
	bars := barsFromCloses(10, 10, 20, 20)
	s := &scriptedStrategy{signals: map[int]strategy.Signal{1: strategy.Buy}}
	res, err := New(DefaultConfig(), nil).Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// bar 1's equity point is recorded before the buy executes
	if !res.EquityCurve[1].Equal(res.InitialCapital) {
		t.Fatalf("equity[1] = %s, want %s (pre-trade)", res.EquityCurve[1], res.InitialCapital)
	}
	// bar 2 marks the 1000-share position at the doubled close
	want := decimal.NewFromInt(20000)
	if !res.EquityCurve[2].Equal(want) {
		t.Fatalf("equity[2] = %s, want %s", res.EquityCurve[2], want)
	}
}

func TestDeterminism(t *testing.T) {
	bars := barsFromCloses(10, 10, 10, 10, 11, 12, 13, 10, 9, 11, 13, 15, 12, 14, 16)
	s, _ := strategy.NewSMACrossover(2, 3)
	eng := New(DefaultConfig(), nil)
	a, err := eng.Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := eng.Run(s, bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.FinalCapital.Equal(b.FinalCapital) {
		t.Fatalf("final capital differs: %s vs %s", a.FinalCapital, b.FinalCapital)
	}
	if len(a.Trades) != len(b.Trades) {
		t.Fatalf("trade counts differ: %d vs %d", len(a.Trades), len(b.Trades))
	}
	for i := range a.EquityCurve {
		if !a.EquityCurve[i].Equal(b.EquityCurve[i]) {
			t.Fatalf("equity[%d] differs: %s vs %s", i, a.EquityCurve[i], b.EquityCurve[i])
		}
	}
	if !a.Summary.TotalReturnPct.Equal(b.Summary.TotalReturnPct) {
		t.Fatal("summaries differ between identical runs")
	}
}

func TestTradeDoubleCloseFails(t *testing.T) {
	tr, err := NewTrade(Long, time.Now(), decimal.NewFromInt(10), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.Close(time.Now(), decimal.NewFromInt(12)); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := tr.Close(time.Now(), decimal.NewFromInt(14)); !errors.Is(err, ErrTradeClosed) {
		t.Fatalf("expected ErrTradeClosed, got %v", err)
	}
}

func TestTradeProfitLossAndReturn(t *testing.T) {
	tr, _ := NewTrade(Long, time.Now(), decimal.NewFromInt(10), 100)
	_ = tr.Close(time.Now(), decimal.NewFromInt(12))
	if !tr.ProfitLoss().Equal(decimal.NewFromInt(200)) {
		t.Fatalf("P/L = %s, want 200", tr.ProfitLoss())
	}
	if !tr.ReturnPct().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("return = %s, want 20", tr.ReturnPct())
	}
	if !tr.IsWin() {
		t.Fatal("profitable trade must be a win")
	}

	sh, _ := NewTrade(Short, time.Now(), decimal.NewFromInt(10), 100)
	_ = sh.Close(time.Now(), decimal.NewFromInt(12))
	if !sh.ProfitLoss().Equal(decimal.NewFromInt(-200)) {
		t.Fatalf("short P/L = %s, want -200", sh.ProfitLoss())
	}
	if sh.IsWin() {
		t.Fatal("losing short must not be a win")
	}
}
