package optimise

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"quant-lab/internal/backtest"
	"quant-lab/internal/series"
	"quant-lab/internal/strategy"
)

// ErrOptimisationFailed 表示参数空间为空或没有任何候选给出有效指标。
var ErrOptimisationFailed = errors.New("optimise: 参数寻优失败")

// CandidateResult 是归约过程中的比较单元。
type CandidateResult struct {
	Params  map[string]float64
	Metrics backtest.Metrics
	Score   float64
}

// Optimiser 对策略参数空间做穷举网格搜索，按夏普比率取最优。
type Optimiser struct {
	logger       *zap.Logger
	backtestOpts []backtest.Option
}

// New 创建优化器，backtestOpts 透传给每个候选的回测器。
func New(logger *zap.Logger, backtestOpts ...backtest.Option) *Optimiser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Optimiser{logger: logger, backtestOpts: backtestOpts}
}

// Optimise 按声明顺序枚举参数空间的笛卡尔积并逐一回测，
// 返回夏普比率严格最高的候选，平局时首见者胜 (比较为 > 而非 >=)。
// 候选回测是顺序执行的：归约携带运行中的最优状态。
// 单个候选失败只跳过该候选并记录告警，不中断整个寻优。
func (o *Optimiser) Optimise(data series.PriceSeries, kind strategy.Type, space Space) (*CandidateResult, error) {
	combos := space.Combinations()
	if len(combos) == 0 {
		return nil, fmt.Errorf("%w: 参数空间为空", ErrOptimisationFailed)
	}

	var best *CandidateResult
	bestScore := math.Inf(-1)

	for i, params := range combos {
		o.logger.Debug("评估参数组合",
			zap.Int("index", i+1),
			zap.Int("total", len(combos)),
		)

		metrics, err := o.evaluate(data, kind, params)
		if err != nil {
			o.logger.Warn("候选参数回测失败", zap.Any("params", params), zap.Error(err))
			continue
		}

		if metrics.SharpeRatio > bestScore {
			bestScore = metrics.SharpeRatio
			best = &CandidateResult{Params: params, Metrics: *metrics, Score: metrics.SharpeRatio}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: 没有候选给出有效指标", ErrOptimisationFailed)
	}
	return best, nil
}

func (o *Optimiser) evaluate(data series.PriceSeries, kind strategy.Type, params map[string]float64) (*backtest.Metrics, error) {
	strat, err := strategy.New(kind, params)
	if err != nil {
		return nil, err
	}

	bt := backtest.New(data, strat, o.backtestOpts...)
	if _, err := bt.Run(); err != nil {
		return nil, err
	}
	return bt.PerformanceMetrics(), nil
}
