package strategy

import (
	"quant-lab/internal/series"
)

// BuyAndHold 为恒定满仓的基准策略，用于按原始总收益为标的排序。
type BuyAndHold struct{}

// NewBuyAndHold 创建买入持有策略。
func NewBuyAndHold() *BuyAndHold {
	return &BuyAndHold{}
}

// Name 返回策略展示名称。
func (s *BuyAndHold) Name() string {
	return "Buy and Hold"
}

// GenerateSignals 对每一行输出 signal=1、positions=1，表示始终持有。
func (s *BuyAndHold) GenerateSignals(data series.PriceSeries) (Signals, error) {
	n := data.Len()
	signal := make([]float64, n)
	positions := make([]float64, n)
	for i := 0; i < n; i++ {
		signal[i] = 1
		positions[i] = 1
	}
	return Signals{Series: data, Signal: signal, Positions: positions}, nil
}
