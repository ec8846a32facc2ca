package store

import (
	"context"
	"math"
	"testing"
	"time"

	"quant-lab/internal/config"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLite(config.DatabaseConfig{InMemory: true, MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("NewSQLite returned error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := RunRecord{
		Name:        "Moving Average Crossover",
		Parameters:  map[string]float64{"short_window": 20, "long_window": 50},
		TotalReturn: 0.089,
		SharpeRatio: 1.42,
		MaxDrawdown: -0.10,
		Tickers:     []string{"AAPL"},
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	id, err := s.SaveRun(ctx, rec)
	if err != nil {
		t.Fatalf("SaveRun returned error: %v", err)
	}
	if id == 0 {
		t.Fatal("SaveRun returned zero id")
	}

	records, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	got := records[0]
	if got.Name != rec.Name {
		t.Errorf("Name = %q, want %q", got.Name, rec.Name)
	}
	if got.Parameters["short_window"] != 20 || got.Parameters["long_window"] != 50 {
		t.Errorf("Parameters = %v", got.Parameters)
	}
	if got.SharpeRatio != rec.SharpeRatio {
		t.Errorf("SharpeRatio = %v, want %v", got.SharpeRatio, rec.SharpeRatio)
	}
	if len(got.Tickers) != 1 || got.Tickers[0] != "AAPL" {
		t.Errorf("Tickers = %v", got.Tickers)
	}
	if !got.StartDate.Equal(rec.StartDate) || !got.EndDate.Equal(rec.EndDate) {
		t.Errorf("dates = %v..%v, want %v..%v", got.StartDate, got.EndDate, rec.StartDate, rec.EndDate)
	}
}

func TestSaveRunNaNSharpeRoundTripsAsNull(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveRun(ctx, RunRecord{
		Name:        "Buy and Hold",
		SharpeRatio: math.NaN(),
		Tickers:     []string{"MSFT"},
		StartDate:   time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("SaveRun returned error: %v", err)
	}

	records, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if !math.IsNaN(records[0].SharpeRatio) {
		t.Errorf("SharpeRatio = %v, want NaN", records[0].SharpeRatio)
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if _, err := s.SaveRun(ctx, RunRecord{
			Name:        "Mean Reversion",
			DateCreated: base.Add(time.Duration(i) * time.Hour),
			Tickers:     []string{"GOOG"},
			StartDate:   base,
			EndDate:     base.AddDate(0, 1, 0),
		}); err != nil {
			t.Fatalf("SaveRun returned error: %v", err)
		}
	}

	records, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !records[0].DateCreated.After(records[1].DateCreated) {
		t.Errorf("records not in descending order: %v then %v", records[0].DateCreated, records[1].DateCreated)
	}
}

func TestClearRemovesAllRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveRun(ctx, RunRecord{
		Name:      "Pairs Trading",
		Tickers:   []string{"KO", "PEP"},
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("SaveRun returned error: %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}

	records, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records after Clear, want 0", len(records))
	}
}
