package series

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// RollingMean 计算滑动均值，窗口未满时退化为截至当前行的累计均值
// (即 min periods = 1)。窗口稳定后直接采用 talib 的 SMA 结果。
func RollingMean(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 || window <= 0 {
		return out
	}

	warmup := window - 1
	if warmup > n {
		warmup = n
	}

	sum := 0.0
	for i := 0; i < warmup; i++ {
		sum += values[i]
		out[i] = sum / float64(i+1)
	}

	if n >= window {
		sma := talib.Sma(values, window)
		copy(out[warmup:], sma[warmup:])
	}
	return out
}

// RollingStd 计算滑动样本标准差 (除以 n-1)，min periods = 1。
// 单个观测值不足以定义标准差，对应位置为 NaN。
func RollingStd(values []float64, window int) []float64 {
	n := len(values)
	out := make([]float64, n)
	if n == 0 || window <= 0 {
		return out
	}

	for i := 0; i < n; i++ {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		count := i - start + 1
		if count < 2 {
			out[i] = math.NaN()
			continue
		}

		mean := 0.0
		for j := start; j <= i; j++ {
			mean += values[j]
		}
		mean /= float64(count)

		variance := 0.0
		for j := start; j <= i; j++ {
			diff := values[j] - mean
			variance += diff * diff
		}
		variance /= float64(count - 1)
		out[i] = math.Sqrt(variance)
	}
	return out
}
