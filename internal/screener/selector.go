package screener

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"quant-lab/internal/backtest"
	"quant-lab/internal/optimise"
	"quant-lab/internal/series"
	"quant-lab/internal/strategy"
)

// ErrSelectionFailed 表示候选池中没有任何标的给出可比较的结果。
var ErrSelectionFailed = errors.New("screener: 标的筛选失败")

// Selector 在候选标的/配对上做组合搜索，找出绩效最优的配置。
// 候选评估是顺序执行的，唯一的并发点是 TopCompanies 的市值拉取。
type Selector struct {
	caps         MarketCapProvider
	prices       PriceLoader
	resolver     CompanyResolver
	optimiser    *optimise.Optimiser
	logger       *zap.Logger
	fetchWorkers int
	backtestOpts []backtest.Option
}

// Option 调整筛选器行为。
type Option func(*Selector)

// WithFetchWorkers 覆盖市值拉取工作池的并发度。
func WithFetchWorkers(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.fetchWorkers = n
		}
	}
}

// WithBacktestOptions 透传回测器选项 (如初始资金)。
func WithBacktestOptions(opts ...backtest.Option) Option {
	return func(s *Selector) {
		s.backtestOpts = opts
	}
}

// NewSelector 构建筛选器。resolver 可为 nil，此时不做同公司过滤。
func NewSelector(caps MarketCapProvider, prices PriceLoader, resolver CompanyResolver, logger *zap.Logger, opts ...Option) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Selector{
		caps:         caps,
		prices:       prices,
		resolver:     resolver,
		logger:       logger,
		fetchWorkers: defaultFetchWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.optimiser = optimise.New(logger, s.backtestOpts...)
	return s
}

// SingleRequest 描述单标的筛选任务。
type SingleRequest struct {
	Companies []Company // 已按市值降序排序的候选池
	Kind      strategy.Type
	Params    map[string]float64 // 固定参数，Optimise=false 时使用
	Space     optimise.Space     // 参数空间，Optimise=true 时使用
	Optimise  bool
	Start     time.Time
	End       time.Time
}

// SingleSelection 是单标的筛选的胜出者。
type SingleSelection struct {
	Ticker  string
	Params  map[string]float64
	Metrics backtest.Metrics
}

// SelectTicker 顺序遍历排序后的候选标的并逐一回测，保留得分严格更高者
// (买入持有按总收益排序，参数化策略按夏普比率排序)，平局时首见者胜。
// 单个标的加载或回测失败只跳过该标的。
func (s *Selector) SelectTicker(ctx context.Context, req SingleRequest) (*SingleSelection, error) {
	var best *SingleSelection
	bestScore := math.Inf(-1)

	for i, company := range req.Companies {
		s.logger.Info("评估候选标的",
			zap.String("ticker", company.Ticker),
			zap.Int("index", i+1),
			zap.Int("total", len(req.Companies)),
		)

		data, err := s.prices.LoadSingle(ctx, company.Ticker, req.Start, req.End)
		if err != nil {
			s.logger.Warn("加载价格序列失败, 跳过", zap.String("ticker", company.Ticker), zap.Error(err))
			continue
		}
		if data.Len() == 0 {
			continue
		}

		params, metrics, err := s.evaluate(data, req.Kind, req.Params, req.Space, req.Optimise)
		if err != nil {
			s.logger.Warn("候选标的评估失败, 跳过", zap.String("ticker", company.Ticker), zap.Error(err))
			continue
		}

		score := metrics.SharpeRatio
		if req.Kind == strategy.TypeBuyAndHold {
			score = metrics.TotalReturn
		}
		if score > bestScore {
			bestScore = score
			best = &SingleSelection{Ticker: company.Ticker, Params: params, Metrics: *metrics}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: 没有候选标的给出有效结果", ErrSelectionFailed)
	}
	return best, nil
}

// PairRequest 描述配对筛选任务。
type PairRequest struct {
	Companies         []Company
	Params            map[string]float64
	Space             optimise.Space
	Optimise          bool
	FilterSameCompany bool
	Start             time.Time
	End               time.Time
}

// PairSelection 是配对筛选的胜出者。
type PairSelection struct {
	Ticker1 string
	Ticker2 string
	Params  map[string]float64
	Metrics backtest.Metrics
}

// SelectPair 枚举候选池的全部无序二元组合 (按排序后的顺序)，可选地剔除
// 指向同一家公司的配对，其余逐一评估并按夏普比率保留最优。
func (s *Selector) SelectPair(ctx context.Context, req PairRequest) (*PairSelection, error) {
	var best *PairSelection
	bestScore := math.Inf(-1)

	pairs := combinations(req.Companies)
	for i, pair := range pairs {
		ticker1, ticker2 := pair[0], pair[1]
		s.logger.Info("评估候选配对",
			zap.String("ticker1", ticker1),
			zap.String("ticker2", ticker2),
			zap.Int("index", i+1),
			zap.Int("total", len(pairs)),
		)

		if req.FilterSameCompany && s.resolver != nil {
			same, err := s.resolver.SameCompany(ctx, ticker1, ticker2)
			if err != nil {
				// 判断失败按不同公司处理，仍参与评估
				s.logger.Warn("同公司判断失败", zap.Error(err))
			} else if same {
				s.logger.Info("配对指向同一公司, 剔除",
					zap.String("ticker1", ticker1),
					zap.String("ticker2", ticker2),
				)
				continue
			}
		}

		data, err := s.prices.LoadPair(ctx, ticker1, ticker2, req.Start, req.End)
		if err != nil {
			s.logger.Warn("加载配对序列失败, 跳过", zap.Error(err))
			continue
		}
		if data.Len() == 0 {
			continue
		}

		params, metrics, err := s.evaluate(data, strategy.TypePairsTrading, req.Params, req.Space, req.Optimise)
		if err != nil {
			s.logger.Warn("候选配对评估失败, 跳过", zap.Error(err))
			continue
		}

		if metrics.SharpeRatio > bestScore {
			bestScore = metrics.SharpeRatio
			best = &PairSelection{Ticker1: ticker1, Ticker2: ticker2, Params: params, Metrics: *metrics}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: 没有候选配对给出有效结果", ErrSelectionFailed)
	}
	return best, nil
}

// evaluate 对一份数据执行单次回测或参数寻优，返回生效参数与指标。
func (s *Selector) evaluate(data series.PriceSeries, kind strategy.Type, params map[string]float64, space optimise.Space, optimiseParams bool) (map[string]float64, *backtest.Metrics, error) {
	if optimiseParams {
		result, err := s.optimiser.Optimise(data, kind, space)
		if err != nil {
			return nil, nil, err
		}
		return result.Params, &result.Metrics, nil
	}

	strat, err := strategy.New(kind, params)
	if err != nil {
		return nil, nil, err
	}
	bt := backtest.New(data, strat, s.backtestOpts...)
	if _, err := bt.Run(); err != nil {
		return nil, nil, err
	}
	return params, bt.PerformanceMetrics(), nil
}

// combinations 生成无序二元组合，保持候选排序顺序。
func combinations(companies []Company) [][2]string {
	var pairs [][2]string
	for i := 0; i < len(companies); i++ {
		for j := i + 1; j < len(companies); j++ {
			pairs = append(pairs, [2]string{companies[i].Ticker, companies[j].Ticker})
		}
	}
	return pairs
}
