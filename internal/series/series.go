package series

import (
	"fmt"
	"math"
	"time"
)

// PriceSeries 表示按日对齐的收盘价序列，单标的使用 Close，
// 配对标的使用 Close1/Close2。所有切片与 Dates 等长。
// 列为 nil 表示缺列 (模式错误)，非 nil 空切片表示合法的空序列，
// 构造函数保证返回的列均非 nil。
type PriceSeries struct {
	Dates  []time.Time
	Close  []float64
	Close1 []float64
	Close2 []float64
}

// NewSingle 构建单标的价格序列，要求日期严格递增且无重复。
func NewSingle(dates []time.Time, close []float64) (PriceSeries, error) {
	if len(dates) != len(close) {
		return PriceSeries{}, fmt.Errorf("series: 日期与收盘价长度不一致 (%d != %d)", len(dates), len(close))
	}
	if err := checkDates(dates); err != nil {
		return PriceSeries{}, err
	}
	if dates == nil {
		dates = []time.Time{}
	}
	if close == nil {
		close = []float64{}
	}
	return PriceSeries{Dates: dates, Close: close}, nil
}

// NewPair 构建配对价格序列，两腿均与日期对齐。
func NewPair(dates []time.Time, close1, close2 []float64) (PriceSeries, error) {
	if len(dates) != len(close1) || len(dates) != len(close2) {
		return PriceSeries{}, fmt.Errorf("series: 日期与两腿收盘价长度不一致")
	}
	if err := checkDates(dates); err != nil {
		return PriceSeries{}, err
	}
	if dates == nil {
		dates = []time.Time{}
	}
	if close1 == nil {
		close1 = []float64{}
	}
	if close2 == nil {
		close2 = []float64{}
	}
	return PriceSeries{Dates: dates, Close1: close1, Close2: close2}, nil
}

func checkDates(dates []time.Time) error {
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return fmt.Errorf("series: 日期必须严格递增, 位置 %d", i)
		}
	}
	return nil
}

// Len 返回序列长度。
func (s PriceSeries) Len() int {
	return len(s.Dates)
}

// IsPair 判断是否为配对序列。
func (s PriceSeries) IsPair() bool {
	return len(s.Close1) > 0 && len(s.Close2) > 0
}

// HasPairColumns 判断配对两腿是否齐备，空序列按列切片是否初始化判断。
func (s PriceSeries) HasPairColumns() bool {
	return s.Close1 != nil && s.Close2 != nil
}

// Last 返回序列最后一个值，若为空则返回 NaN。
func Last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// Diff 计算一阶差分，首元素按 0 处理。
func Diff(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

// PctChange 计算逐日百分比变化，首元素为 NaN。
func PctChange(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(out) > 0 {
		out[0] = math.NaN()
	}
	for i := 1; i < len(values); i++ {
		out[i] = (values[i] - values[i-1]) / values[i-1]
	}
	return out
}

// Sub 逐元素相减，要求等长。
func Sub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

// CumProd 计算累计乘积。
func CumProd(values []float64) []float64 {
	out := make([]float64, len(values))
	acc := 1.0
	for i, v := range values {
		acc *= v
		out[i] = acc
	}
	return out
}

// RunningMax 计算运行中的最大值。
func RunningMax(values []float64) []float64 {
	out := make([]float64, len(values))
	peak := math.Inf(-1)
	for i, v := range values {
		if v > peak {
			peak = v
		}
		out[i] = peak
	}
	return out
}
