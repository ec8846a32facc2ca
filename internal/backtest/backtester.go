package backtest

import (
	"errors"
	"math"

	"go.uber.org/zap"

	"quant-lab/internal/series"
	"quant-lab/internal/strategy"
)

// 默认初始资金。
const defaultInitialCapital = 100000.0

// ErrMissingDates 表示信号缺少日期列。
var ErrMissingDates = errors.New("backtest: 信号缺少日期列")

// ErrMissingClose 表示数据既无 Close 也无 Close_1/Close_2 列。
var ErrMissingClose = errors.New("backtest: 数据缺少必需的收盘价列")

// Result 汇总回测结果：信号及各条收益序列，与输入序列等长。
type Result struct {
	Signals           strategy.Signals
	AssetReturns      []float64
	StrategyReturns   []float64
	CumulativeReturns []float64
	EquityCurve       []float64
}

// Backtester 将价格序列与策略串联为收益序列与绩效指标。
type Backtester struct {
	data           series.PriceSeries
	strat          strategy.Strategy
	initialCapital float64
	logger         *zap.Logger

	results *Result
}

// Option 调整回测器行为。
type Option func(*Backtester)

// WithInitialCapital 覆盖默认初始资金。
func WithInitialCapital(capital float64) Option {
	return func(b *Backtester) {
		if capital > 0 {
			b.initialCapital = capital
		}
	}
}

// WithLogger 注入日志实例。
func WithLogger(logger *zap.Logger) Option {
	return func(b *Backtester) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// New 构建回测器，默认初始资金 100000。
func New(data series.PriceSeries, strat strategy.Strategy, opts ...Option) *Backtester {
	b := &Backtester{
		data:           data,
		strat:          strat,
		initialCapital: defaultInitialCapital,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run 执行回测：生成信号、计算收益并缓存结果。
// 列为 nil 视为缺列并返回模式错误；构造函数产出的空序列列非 nil，
// 是合法输入，产出空的结果序列。
func (b *Backtester) Run() (*Result, error) {
	signals, err := b.strat.GenerateSignals(b.data)
	if err != nil {
		return nil, err
	}
	if signals.Series.Dates == nil {
		return nil, ErrMissingDates
	}

	assetReturns, err := b.assetReturns()
	if err != nil {
		return nil, err
	}

	// 核心无前视不变量：t-1 日持有的敞口吃到 t 日实现的收益。
	n := len(assetReturns)
	strategyReturns := make([]float64, n)
	for t := 1; t < n; t++ {
		r := signals.Signal[t-1] * assetReturns[t]
		if math.IsInf(r, 0) || math.IsNaN(r) {
			r = 0
		}
		strategyReturns[t] = r
	}

	onePlus := make([]float64, n)
	for i, r := range strategyReturns {
		onePlus[i] = 1 + r
	}
	cumulative := series.CumProd(onePlus)

	equity := make([]float64, n)
	for i, c := range cumulative {
		equity[i] = b.initialCapital * c
	}

	b.results = &Result{
		Signals:           signals,
		AssetReturns:      assetReturns,
		StrategyReturns:   strategyReturns,
		CumulativeReturns: cumulative,
		EquityCurve:       equity,
	}

	b.logger.Debug("回测完成",
		zap.String("strategy", b.strat.Name()),
		zap.Int("rows", n),
	)

	return b.results, nil
}

// assetReturns 计算标的收益：配对为两腿各自百分比变化之差
// (而非价差的百分比变化)，单标的为收盘价百分比变化。
func (b *Backtester) assetReturns() ([]float64, error) {
	switch {
	case b.data.Close1 != nil && b.data.Close2 != nil:
		return series.Sub(series.PctChange(b.data.Close1), series.PctChange(b.data.Close2)), nil
	case b.data.Close != nil:
		return series.PctChange(b.data.Close), nil
	default:
		return nil, ErrMissingClose
	}
}

// PerformanceMetrics 返回绩效指标，Run 未执行过时返回 nil。
func (b *Backtester) PerformanceMetrics() *Metrics {
	if b.results == nil {
		return nil
	}
	m := calculateMetrics(b.results.EquityCurve, b.results.CumulativeReturns, b.results.StrategyReturns)
	return &m
}
