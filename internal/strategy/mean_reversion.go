package strategy

import (
	"fmt"
	"math"

	"quant-lab/internal/series"
)

// MeanReversion 依据布林带式上下轨生成回归信号：价格跌破下轨买入，
// 突破上轨卖出，带内空仓。
type MeanReversion struct {
	window int
	stdDev float64
}

// NewMeanReversion 创建均值回归策略，窗口与标准差倍数必须为正。
func NewMeanReversion(window int, stdDev float64) (*MeanReversion, error) {
	if window <= 0 {
		return nil, fmt.Errorf("strategy: window 必须大于0, 实际 %d", window)
	}
	if stdDev <= 0 {
		return nil, fmt.Errorf("strategy: std_dev 必须大于0, 实际 %g", stdDev)
	}
	return &MeanReversion{window: window, stdDev: stdDev}, nil
}

// Name 返回策略展示名称。
func (s *MeanReversion) Name() string {
	return "Mean Reversion"
}

// GenerateSignals 计算滑动均值与滑动标准差 (min periods = 1)。
// 滑动标准差为 0 时视为轨道未定义，当日不产生信号。
// 缺少 Close 列时返回数据契约错误。
func (s *MeanReversion) GenerateSignals(data series.PriceSeries) (Signals, error) {
	if data.Close == nil {
		return Signals{}, ErrMissingCloseColumn
	}

	n := data.Len()
	mean := series.RollingMean(data.Close, s.window)
	std := series.RollingStd(data.Close, s.window)

	signal := make([]float64, n)
	for i := 0; i < n; i++ {
		if std[i] == 0 || math.IsNaN(std[i]) {
			continue
		}
		upper := mean[i] + s.stdDev*std[i]
		lower := mean[i] - s.stdDev*std[i]
		switch {
		case data.Close[i] < lower:
			signal[i] = 1
		case data.Close[i] > upper:
			signal[i] = -1
		}
	}

	return Signals{
		Series:      data,
		RollingMean: mean,
		RollingStd:  std,
		Signal:      signal,
		Positions:   series.Diff(signal),
	}, nil
}
