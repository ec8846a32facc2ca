package app

import (
	"testing"

	"quant-lab/internal/strategy"
)

func TestShouldOptimise(t *testing.T) {
	cases := []struct {
		kind    strategy.Type
		enabled bool
		want    bool
	}{
		{strategy.TypeMovingAverageCrossover, true, true},
		{strategy.TypeMeanReversion, true, true},
		{strategy.TypePairsTrading, true, true},
		{strategy.TypeBuyAndHold, true, false}, // 买入持有没有参数空间
		{strategy.TypeMovingAverageCrossover, false, false},
		{strategy.TypeBuyAndHold, false, false},
	}
	for _, tc := range cases {
		if got := shouldOptimise(tc.kind, tc.enabled); got != tc.want {
			t.Errorf("shouldOptimise(%s, %v) = %v, want %v", tc.kind, tc.enabled, got, tc.want)
		}
	}
}
