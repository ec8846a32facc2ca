package strategy

import (
	"testing"
	"time"

	"quant-lab/internal/series"
)

func day(i int) time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func singleSeries(t *testing.T, closes []float64) series.PriceSeries {
	t.Helper()
	dates := make([]time.Time, len(closes))
	for i := range dates {
		dates[i] = day(i)
	}
	s, err := series.NewSingle(dates, closes)
	if err != nil {
		t.Fatalf("NewSingle returned error: %v", err)
	}
	return s
}

func pairSeries(t *testing.T, close1, close2 []float64) series.PriceSeries {
	t.Helper()
	dates := make([]time.Time, len(close1))
	for i := range dates {
		dates[i] = day(i)
	}
	s, err := series.NewPair(dates, close1, close2)
	if err != nil {
		t.Fatalf("NewPair returned error: %v", err)
	}
	return s
}

func TestBuyAndHoldAlwaysHolds(t *testing.T) {
	data := singleSeries(t, []float64{100, 101, 99, 103})
	signals, err := NewBuyAndHold().GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}

	for i := 0; i < data.Len(); i++ {
		if signals.Signal[i] != 1 {
			t.Errorf("signal[%d] = %v, want 1", i, signals.Signal[i])
		}
		if signals.Positions[i] != 1 {
			t.Errorf("positions[%d] = %v, want 1", i, signals.Positions[i])
		}
	}
}

func TestBuyAndHoldEmptyInput(t *testing.T) {
	data := singleSeries(t, []float64{})
	signals, err := NewBuyAndHold().GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}
	if len(signals.Signal) != 0 || len(signals.Positions) != 0 {
		t.Fatal("expected empty signals for empty input")
	}
}
