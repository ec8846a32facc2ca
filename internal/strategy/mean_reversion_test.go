package strategy

import (
	"errors"
	"testing"
)

func TestMeanReversionValidation(t *testing.T) {
	if _, err := NewMeanReversion(0, 2.0); err == nil {
		t.Fatal("expected error for non-positive window")
	}
	if _, err := NewMeanReversion(20, 0); err == nil {
		t.Fatal("expected error for non-positive std_dev")
	}
}

func TestMeanReversionSignalDomain(t *testing.T) {
	data := singleSeries(t, []float64{100, 100, 100, 100, 60, 100, 100, 100, 150, 100})
	strat, err := NewMeanReversion(3, 1.0)
	if err != nil {
		t.Fatalf("NewMeanReversion returned error: %v", err)
	}

	signals, err := strat.GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}

	for i, v := range signals.Signal {
		if v != -1 && v != 0 && v != 1 {
			t.Errorf("signal[%d] = %v, want -1, 0 or 1", i, v)
		}
	}
}

func TestMeanReversionMissingClose(t *testing.T) {
	// 只有配对两腿而缺少 Close 列时应返回模式错误而非信号
	data := pairSeries(t, []float64{100, 101, 102}, []float64{100, 100, 100})
	strat, err := NewMeanReversion(3, 2.0)
	if err != nil {
		t.Fatalf("NewMeanReversion returned error: %v", err)
	}

	if _, err := strat.GenerateSignals(data); !errors.Is(err, ErrMissingCloseColumn) {
		t.Fatalf("expected ErrMissingCloseColumn, got %v", err)
	}
}

func TestMeanReversionFlatSeriesNoSignals(t *testing.T) {
	// 常数序列的滑动标准差为0，轨道未定义，不应有任何信号
	data := singleSeries(t, []float64{100, 100, 100, 100, 100})
	strat, err := NewMeanReversion(3, 2.0)
	if err != nil {
		t.Fatalf("NewMeanReversion returned error: %v", err)
	}

	signals, err := strat.GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}

	for i, v := range signals.Signal {
		if v != 0 {
			t.Errorf("signal[%d] = %v, want 0 on flat series", i, v)
		}
	}
}

func TestMeanReversionCrossingBands(t *testing.T) {
	// 价格先在基准附近波动，随后急跌穿透下轨应触发买入
	data := singleSeries(t, []float64{100, 101, 99, 100, 101, 99, 100, 80})
	strat, err := NewMeanReversion(5, 1.0)
	if err != nil {
		t.Fatalf("NewMeanReversion returned error: %v", err)
	}

	signals, err := strat.GenerateSignals(data)
	if err != nil {
		t.Fatalf("GenerateSignals returned error: %v", err)
	}

	last := len(signals.Signal) - 1
	if signals.Signal[last] != 1 {
		t.Errorf("signal[%d] = %v, want 1 after drop below lower band", last, signals.Signal[last])
	}
}
