package strategy

import (
	"fmt"
	"math"

	"quant-lab/internal/series"
)

// PairsTrading 对两条价差序列做均值回归：价差 z 值越过入场阈值时
// 做空/做多价差，回到出场阈值以内平仓，阈值之间保持原有仓位。
type PairsTrading struct {
	window int
	entryZ float64
	exitZ  float64
}

// NewPairsTrading 创建配对交易策略。exit_z_score 预期小于 entry_z_score，
// 但与窗口一样只校验为正。
func NewPairsTrading(window int, entryZ, exitZ float64) (*PairsTrading, error) {
	if window <= 0 {
		return nil, fmt.Errorf("strategy: window 必须大于0, 实际 %d", window)
	}
	if entryZ <= 0 {
		return nil, fmt.Errorf("strategy: entry_z_score 必须大于0, 实际 %g", entryZ)
	}
	if exitZ <= 0 {
		return nil, fmt.Errorf("strategy: exit_z_score 必须大于0, 实际 %g", exitZ)
	}
	return &PairsTrading{window: window, entryZ: entryZ, exitZ: exitZ}, nil
}

// Name 返回策略展示名称。
func (s *PairsTrading) Name() string {
	return "Pairs Trading"
}

// GenerateSignals 计算价差的滑动 z 值并做带滞回的逐行扫描。
// 缺少 Close_1/Close_2 任一腿时直接返回数据契约错误。
func (s *PairsTrading) GenerateSignals(data series.PriceSeries) (Signals, error) {
	if !data.HasPairColumns() {
		return Signals{}, ErrMissingPairColumns
	}

	n := data.Len()
	spread := series.Sub(data.Close1, data.Close2)
	mean := series.RollingMean(spread, s.window)
	std := series.RollingStd(spread, s.window)

	zScore := make([]float64, n)
	for i := 0; i < n; i++ {
		switch {
		case std[i] == 0:
			zScore[i] = 0 // 标准差为0时 z 值按0处理，避免除零
		case math.IsNaN(std[i]):
			zScore[i] = math.NaN()
		default:
			zScore[i] = (spread[i] - mean[i]) / std[i]
		}
	}

	// 滞回扫描：只有越过入场/出场阈值时才调整仓位，阈值之间沿用前一日信号。
	// z 值未定义的前导行落入保持分支，起始信号为0。
	signal := make([]float64, n)
	prev := 0.0
	for i := 0; i < n; i++ {
		z := zScore[i]
		switch {
		case z > s.entryZ:
			prev = -1
		case z < -s.entryZ:
			prev = 1
		case math.Abs(z) < s.exitZ:
			prev = 0
		}
		signal[i] = prev
	}

	return Signals{
		Series:    data,
		Spread:    spread,
		ZScore:    zScore,
		Signal:    signal,
		Positions: series.Diff(signal),
	}, nil
}
