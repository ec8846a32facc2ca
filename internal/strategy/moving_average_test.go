package strategy

import (
	"errors"
	"testing"
)

func TestMovingAverageCrossoverValidation(t *testing.T) {
	if _, err := NewMovingAverageCrossover(0, 10); err == nil {
		t.Fatal("expected error for non-positive short window")
	}
	if _, err := NewMovingAverageCrossover(5, -1); err == nil {
		t.Fatal("expected error for non-positive long window")
	}
}

func TestMovingAverageCrossoverSignalDomain(t *testing.T) {
	data := singleSeries(t, []float64{100, 102, 101, 105, 110, 108, 95, 90, 92, 99})
	strat, err := NewMovingAverageCrossover(2, 4)
	if err != nil {
		t.Fatalf("NewMovingAverageCrossover returned error: %v", err)
	}

	signals, err := strat.GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}

	for i, v := range signals.Signal {
		if v != 0 && v != 1 {
			t.Errorf("signal[%d] = %v, want 0 or 1", i, v)
		}
	}
	if signals.Positions[0] != 0 {
		t.Errorf("positions[0] = %v, want 0", signals.Positions[0])
	}
	for i := 1; i < len(signals.Positions); i++ {
		want := signals.Signal[i] - signals.Signal[i-1]
		if signals.Positions[i] != want {
			t.Errorf("positions[%d] = %v, want diff %v", i, signals.Positions[i], want)
		}
	}
}

func TestMovingAverageCrossoverUptrendGoesLong(t *testing.T) {
	// 严格上行的序列里短均线自第二行起高于长均线
	data := singleSeries(t, []float64{100, 110, 121, 133, 146, 160})
	strat, err := NewMovingAverageCrossover(2, 4)
	if err != nil {
		t.Fatalf("NewMovingAverageCrossover returned error: %v", err)
	}

	signals, err := strat.GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}

	if signals.Signal[0] != 0 {
		t.Errorf("signal[0] = %v, want 0", signals.Signal[0])
	}
	for i := 1; i < data.Len(); i++ {
		if signals.Signal[i] != 1 {
			t.Errorf("signal[%d] = %v, want 1", i, signals.Signal[i])
		}
	}
}

func TestMovingAverageCrossoverMissingClose(t *testing.T) {
	// 只有配对两腿而缺少 Close 列时应返回模式错误而非信号
	data := pairSeries(t, []float64{100, 101, 102}, []float64{100, 100, 100})
	strat, err := NewMovingAverageCrossover(2, 4)
	if err != nil {
		t.Fatalf("NewMovingAverageCrossover returned error: %v", err)
	}

	if _, err := strat.GenerateSignals(data); !errors.Is(err, ErrMissingCloseColumn) {
		t.Fatalf("expected ErrMissingCloseColumn, got %v", err)
	}
}

func TestMovingAverageCrossoverEmptyInput(t *testing.T) {
	data := singleSeries(t, []float64{})
	strat, err := NewMovingAverageCrossover(5, 20)
	if err != nil {
		t.Fatalf("NewMovingAverageCrossover returned error: %v", err)
	}
	signals, err := strat.GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}
	if len(signals.Signal) != 0 {
		t.Fatal("expected empty signals for empty input")
	}
}
