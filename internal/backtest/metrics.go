package backtest

import (
	"math"

	"quant-lab/internal/series"
)

// 年化因子按每年252个交易日折算。
const tradingDaysPerYear = 252

// Metrics 记录回测绩效指标。
type Metrics struct {
	TotalReturn float64
	SharpeRatio float64
	MaxDrawdown float64
}

func calculateMetrics(equity, cumulative, returns []float64) Metrics {
	if len(equity) == 0 {
		return Metrics{SharpeRatio: math.NaN()}
	}

	totalReturn := series.Last(cumulative) - 1

	return Metrics{
		TotalReturn: totalReturn,
		SharpeRatio: computeSharpe(returns),
		MaxDrawdown: computeDrawdown(equity),
	}
}

// computeSharpe 计算年化夏普比率，标准差为0或未定义时返回 NaN。
func computeSharpe(returns []float64) float64 {
	if len(returns) == 0 {
		return math.NaN()
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	if len(returns) > 1 {
		variance /= float64(len(returns) - 1)
	}

	std := math.Sqrt(variance)
	if std == 0 || math.IsNaN(std) {
		return math.NaN()
	}

	return math.Sqrt(tradingDaysPerYear) * mean / std
}

// computeDrawdown 计算最大回撤，等于净值相对运行峰值的最深跌幅，恒为非正。
func computeDrawdown(equity []float64) float64 {
	peaks := series.RunningMax(equity)
	maxDD := 0.0
	for i, v := range equity {
		if dd := v/peaks[i] - 1; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD
}
