package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func decimalFrom(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func rows(closes ...float64) []BarRow {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]BarRow, len(closes))
	for i, c := range closes {
		d := start.AddDate(0, 0, i)
		out[i] = BarRow{
			Date:   d.Format(dateLayout),
			Open:   decimalFrom(c),
			High:   decimalFrom(c),
			Low:    decimalFrom(c),
			Close:  decimalFrom(c),
			Volume: 1000,
		}
	}
	return out
}

func TestHealthEndpoint(t *testing.T) {
	r := NewService(nil).Router()
	w := doJSON(t, r, http.MethodGet, "/api/v1/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" || resp.TradingDaysPerYear != 252 {
		t.Fatalf("unexpected health payload: %+v", resp)
	}
}

func TestEquityBacktestRoundTrip(t *testing.T) {
	r := NewService(nil).Router()
	req := EquityRunRequest{
		Bars: rows(10, 10, 10, 10, 11, 12, 13, 14, 15, 16),
		Strategy: StrategySpec{
			Type:   "sma_crossover",
			Params: map[string]float64{"short_period": 2, "long_period": 3},
		},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/equity", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp EquityRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("unexpected error payload: %+v", resp.Error)
	}
	if resp.Result == nil {
		t.Fatal("missing result payload")
	}
	if len(resp.Result.Trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(resp.Result.Trades))
	}
	if resp.Result.RunID == "" {
		t.Fatal("run ID must be set")
	}
	if len(resp.Result.EquityCurve) != len(req.Bars) {
		t.Fatalf("equity curve has %d points, want %d", len(resp.Result.EquityCurve), len(req.Bars))
	}
}

func TestEquityBacktestUnknownStrategy(t *testing.T) {
	r := NewService(nil).Router()
	req := EquityRunRequest{
		Bars:     rows(10, 11, 12),
		Strategy: StrategySpec{Type: "momentum_magic"},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/equity", req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp EquityRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "INVALID_STRATEGY" {
		t.Fatalf("error = %+v, want INVALID_STRATEGY", resp.Error)
	}
}

func TestEquityBacktestBadParams(t *testing.T) {
	r := NewService(nil).Router()
	req := EquityRunRequest{
		Bars: rows(10, 11, 12),
		Strategy: StrategySpec{
			Type:   "sma_crossover",
			Params: map[string]float64{"short_period": 30, "long_period": 10},
		},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/equity", req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp EquityRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "INVALID_STRATEGY" {
		t.Fatalf("error = %+v, want INVALID_STRATEGY", resp.Error)
	}
}

func TestEquityBacktestBadDate(t *testing.T) {
	r := NewService(nil).Router()
	bars := rows(10, 11, 12)
	bars[1].Date = "01/03/2024"
	req := EquityRunRequest{
		Bars:     bars,
		Strategy: StrategySpec{Type: "sma_crossover", Params: map[string]float64{"short_period": 2, "long_period": 3}},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/equity", req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp EquityRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "INVALID_PARAMS" {
		t.Fatalf("error = %+v, want INVALID_PARAMS", resp.Error)
	}
}

func TestEquityBacktestUnorderedBarsFailExecution(t *testing.T) {
	r := NewService(nil).Router()
	bars := rows(10, 11, 12)
	bars[2].Date = bars[0].Date // duplicate date breaks strict ordering
	req := EquityRunRequest{
		Bars:     bars,
		Strategy: StrategySpec{Type: "sma_crossover", Params: map[string]float64{"short_period": 2, "long_period": 3}},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/equity", req)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	var resp EquityRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != "EXECUTION_FAILED" {
		t.Fatalf("error = %+v, want EXECUTION_FAILED", resp.Error)
	}
}

func TestOptionsBacktestRoundTrip(t *testing.T) {
	r := NewService(nil).Router()
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	req := OptionsRunRequest{
		Bars: rows(closes...),
		Strategy: StrategySpec{
			Type:   "covered_call",
			Params: map[string]float64{"expiry_days": 10, "baseline_period": 5},
		},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/options", req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp OptionsRunResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Result == nil {
		t.Fatal("missing result payload")
	}
	if len(resp.Result.Trades) == 0 {
		t.Fatal("expected at least one settled leg")
	}
	for _, tr := range resp.Result.Trades {
		if tr.Status.String() == "OPEN" {
			t.Fatal("all legs must be settled in the result")
		}
	}
}

func TestOptionsBacktestUnknownStrategy(t *testing.T) {
	r := NewService(nil).Router()
	req := OptionsRunRequest{
		Bars:     rows(100, 101, 102),
		Strategy: StrategySpec{Type: "naked_everything"},
	}
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/options", req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestEmptyBarsRejected(t *testing.T) {
	r := NewService(nil).Router()
	w := doJSON(t, r, http.MethodPost, "/api/v1/backtest/equity", map[string]any{
		"bars":     []any{},
		"strategy": map[string]any{"type": "sma_crossover"},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
