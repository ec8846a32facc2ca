package optimise

import (
	"errors"
	"math"
	"testing"
	"time"

	"quant-lab/internal/backtest"
	"quant-lab/internal/series"
	"quant-lab/internal/strategy"
)

func singleSeries(t *testing.T, closes []float64) series.PriceSeries {
	t.Helper()
	dates := make([]time.Time, len(closes))
	for i := range dates {
		dates[i] = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
	}
	s, err := series.NewSingle(dates, closes)
	if err != nil {
		t.Fatalf("NewSingle returned error: %v", err)
	}
	return s
}

func TestOptimiseEmptySpace(t *testing.T) {
	data := singleSeries(t, []float64{100, 101, 102})
	o := New(nil)

	if _, err := o.Optimise(data, strategy.TypeMovingAverageCrossover, Space{}); !errors.Is(err, ErrOptimisationFailed) {
		t.Fatalf("expected ErrOptimisationFailed for empty space, got %v", err)
	}
	if _, err := o.Optimise(data, strategy.TypeMovingAverageCrossover, Space{List("short_window")}); !errors.Is(err, ErrOptimisationFailed) {
		t.Fatalf("expected ErrOptimisationFailed for empty dimension, got %v", err)
	}
}

func TestOptimiseAllCandidatesUndefined(t *testing.T) {
	// 价格恒定：所有候选的收益方差为0，夏普全为 NaN，没有赢家。
	data := singleSeries(t, []float64{100, 100, 100, 100, 100})
	space := Space{List("short_window", 1, 2), List("long_window", 3, 4)}

	o := New(nil)
	if _, err := o.Optimise(data, strategy.TypeMovingAverageCrossover, space); !errors.Is(err, ErrOptimisationFailed) {
		t.Fatalf("expected ErrOptimisationFailed, got %v", err)
	}
}

func TestOptimiseReturnsBestSharpe(t *testing.T) {
	data := singleSeries(t, []float64{100, 103, 99, 107, 95, 112, 101, 118, 104, 125})
	space := Space{List("short_window", 1, 2), List("long_window", 3, 5)}

	o := New(nil)
	best, err := o.Optimise(data, strategy.TypeMovingAverageCrossover, space)
	if err != nil {
		t.Fatalf("Optimise returned error: %v", err)
	}
	if math.IsNaN(best.Score) {
		t.Fatal("best score is NaN")
	}

	// 逐一重算每个候选，确认没有谁超过返回的最优。
	for _, params := range space.Combinations() {
		strat, err := strategy.New(strategy.TypeMovingAverageCrossover, params)
		if err != nil {
			t.Fatalf("New returned error: %v", err)
		}
		bt := backtest.New(data, strat)
		if _, err := bt.Run(); err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		if sharpe := bt.PerformanceMetrics().SharpeRatio; sharpe > best.Score {
			t.Errorf("params %v sharpe %v beats reported best %v", params, sharpe, best.Score)
		}
	}
}

func TestOptimiseTieKeepsFirstCombination(t *testing.T) {
	// 严格递增的序列上 long_window 取2或3给出完全相同的信号序列，
	// 两个候选并列，首见者应当胜出。
	data := singleSeries(t, []float64{100, 101, 103, 106, 110, 115, 121})
	space := Space{List("short_window", 1), List("long_window", 2, 3)}

	o := New(nil)
	best, err := o.Optimise(data, strategy.TypeMovingAverageCrossover, space)
	if err != nil {
		t.Fatalf("Optimise returned error: %v", err)
	}
	if best.Params["long_window"] != 2 {
		t.Fatalf("tie should keep the first combination, got long_window=%v", best.Params["long_window"])
	}
}

func TestDefaultSpaceCoversEachKind(t *testing.T) {
	for _, kind := range []strategy.Type{
		strategy.TypeMovingAverageCrossover,
		strategy.TypeMeanReversion,
		strategy.TypePairsTrading,
	} {
		space := DefaultSpace(kind)
		if space.Size() == 0 {
			t.Errorf("DefaultSpace(%s) is empty", kind)
		}
	}
	if got := DefaultSpace(strategy.TypeBuyAndHold); got != nil {
		t.Errorf("DefaultSpace(buy_and_hold) = %v, want nil", got)
	}
}
