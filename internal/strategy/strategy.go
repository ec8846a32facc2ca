package strategy

import (
	"errors"
	"fmt"

	"quant-lab/internal/series"
)

// Type 标识策略类型。
type Type string

// 支持的策略类型。
const (
	TypeBuyAndHold             Type = "buy_and_hold"
	TypeMovingAverageCrossover Type = "moving_average_crossover"
	TypeMeanReversion          Type = "mean_reversion"
	TypePairsTrading           Type = "pairs_trading"
)

// ErrUnknownType 表示策略类型不被支持，在构造阶段立即失败。
var ErrUnknownType = errors.New("strategy: 未知的策略类型")

// ErrMissingCloseColumn 表示单标的策略缺少 Close 列。
var ErrMissingCloseColumn = errors.New("strategy: 数据缺少 Close 列")

// ErrMissingPairColumns 表示配对策略缺少 Close1/Close2 两腿数据。
var ErrMissingPairColumns = errors.New("strategy: 数据缺少 Close_1/Close_2 列")

// Signals 承载策略输出：原始序列、策略相关中间列以及必需的
// Signal/Positions 两列。所有列与输入序列等长。
type Signals struct {
	Series series.PriceSeries

	ShortMavg   []float64 // 均线交叉策略
	LongMavg    []float64
	RollingMean []float64 // 均值回归策略
	RollingStd  []float64
	Spread      []float64 // 配对交易策略
	ZScore      []float64

	Signal    []float64 // 当日期望敞口
	Positions []float64 // 敞口的逐日变化，即当日执行的交易
}

// Strategy 定义信号生成契约，四种策略共享同一接口。
type Strategy interface {
	// GenerateSignals 基于价格序列生成交易信号，空输入返回空信号而非报错。
	GenerateSignals(data series.PriceSeries) (Signals, error)
	// Name 返回策略展示名称。
	Name() string
}

// ParseType 解析配置中的策略类型字符串。
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeBuyAndHold, TypeMovingAverageCrossover, TypeMeanReversion, TypePairsTrading:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

// New 根据策略类型与参数表构建策略实例，参数键与配置保持一致。
// 未知类型或参数缺失在此处立即失败。
func New(kind Type, params map[string]float64) (Strategy, error) {
	switch kind {
	case TypeBuyAndHold:
		return NewBuyAndHold(), nil
	case TypeMovingAverageCrossover:
		short, err := requireParam(params, "short_window")
		if err != nil {
			return nil, err
		}
		long, err := requireParam(params, "long_window")
		if err != nil {
			return nil, err
		}
		return NewMovingAverageCrossover(int(short), int(long))
	case TypeMeanReversion:
		window, err := requireParam(params, "window")
		if err != nil {
			return nil, err
		}
		stdDev, err := requireParam(params, "std_dev")
		if err != nil {
			return nil, err
		}
		return NewMeanReversion(int(window), stdDev)
	case TypePairsTrading:
		window, err := requireParam(params, "window")
		if err != nil {
			return nil, err
		}
		entry, err := requireParam(params, "entry_z_score")
		if err != nil {
			return nil, err
		}
		exit, err := requireParam(params, "exit_z_score")
		if err != nil {
			return nil, err
		}
		return NewPairsTrading(int(window), entry, exit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
}

func requireParam(params map[string]float64, name string) (float64, error) {
	value, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("strategy: 缺少参数 %q", name)
	}
	return value, nil
}
