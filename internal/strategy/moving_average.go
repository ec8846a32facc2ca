package strategy

import (
	"fmt"

	"quant-lab/internal/series"
)

// MovingAverageCrossover 依据短期/长期均线交叉生成信号：
// 短均线高于长均线时持仓，否则空仓。
type MovingAverageCrossover struct {
	shortWindow int
	longWindow  int
}

// NewMovingAverageCrossover 创建均线交叉策略，窗口必须为正整数。
func NewMovingAverageCrossover(shortWindow, longWindow int) (*MovingAverageCrossover, error) {
	if shortWindow <= 0 {
		return nil, fmt.Errorf("strategy: short_window 必须大于0, 实际 %d", shortWindow)
	}
	if longWindow <= 0 {
		return nil, fmt.Errorf("strategy: long_window 必须大于0, 实际 %d", longWindow)
	}
	return &MovingAverageCrossover{shortWindow: shortWindow, longWindow: longWindow}, nil
}

// Name 返回策略展示名称。
func (s *MovingAverageCrossover) Name() string {
	return "Moving Average Crossover"
}

// GenerateSignals 计算两条滑动均线 (min periods = 1，起始行有值但噪声较大)，
// 短均线大于长均线时 signal=1，否则 0。positions 为 signal 的一阶差分。
// 缺少 Close 列时返回数据契约错误。
func (s *MovingAverageCrossover) GenerateSignals(data series.PriceSeries) (Signals, error) {
	if data.Close == nil {
		return Signals{}, ErrMissingCloseColumn
	}

	n := data.Len()
	shortMavg := series.RollingMean(data.Close, s.shortWindow)
	longMavg := series.RollingMean(data.Close, s.longWindow)

	signal := make([]float64, n)
	for i := 0; i < n; i++ {
		if shortMavg[i] > longMavg[i] {
			signal[i] = 1
		}
	}

	return Signals{
		Series:    data,
		ShortMavg: shortMavg,
		LongMavg:  longMavg,
		Signal:    signal,
		Positions: series.Diff(signal),
	}, nil
}
