package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"quant-lab/internal/backtest"
	"quant-lab/internal/config"
	"quant-lab/internal/marketdata"
	"quant-lab/internal/optimise"
	"quant-lab/internal/screener"
	"quant-lab/internal/series"
	"quant-lab/internal/store"
	"quant-lab/internal/strategy"
)

// App 聚合核心依赖并驱动一次完整的回测/寻优任务。
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

// New 创建 App 实例。
func New(cfg *config.Config, logger *zap.Logger, store *store.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
		store:  store,
	}
}

// runOutcome 汇总一次任务的胜出配置，供日志与落库使用。
type runOutcome struct {
	tickers []string
	params  map[string]float64
	metrics backtest.Metrics
}

// Run 按配置执行任务：解析策略与区间、必要时自动筛选标的、
// 执行回测或参数寻优，最后输出绩效并持久化运行记录。
func (a *App) Run(ctx context.Context) error {
	kind, err := strategy.ParseType(a.cfg.Strategy.Type)
	if err != nil {
		return err
	}
	start, end, err := a.cfg.Strategy.Dates()
	if err != nil {
		return err
	}

	a.logger.Info("回测任务启动",
		zap.String("environment", a.cfg.App.Environment),
		zap.String("strategy", string(kind)),
		zap.Bool("optimise", a.cfg.Strategy.Optimise),
		zap.Bool("auto_select", a.cfg.Screener.AutoSelect),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	client := marketdata.NewClient(a.cfg.Data.BaseURL, a.cfg.Data.Timeout, a.logger)
	selector := screener.NewSelector(client, client, client, a.logger,
		screener.WithFetchWorkers(a.cfg.Screener.FetchWorkers),
		screener.WithBacktestOptions(backtest.WithInitialCapital(a.cfg.Backtest.InitialCapital)),
	)

	var outcome *runOutcome
	if a.cfg.Screener.AutoSelect {
		outcome, err = a.runAutoSelect(ctx, kind, selector, start, end)
	} else {
		outcome, err = a.runManual(ctx, kind, client, start, end)
	}
	if err != nil {
		return err
	}

	a.logger.Info("回测任务完成",
		zap.Strings("tickers", outcome.tickers),
		zap.Any("params", outcome.params),
		zap.Float64("total_return", outcome.metrics.TotalReturn),
		zap.Float64("sharpe_ratio", outcome.metrics.SharpeRatio),
		zap.Float64("max_drawdown", outcome.metrics.MaxDrawdown),
	)

	if a.store != nil {
		strat, err := strategy.New(kind, outcome.params)
		if err != nil {
			return err
		}
		id, err := a.store.SaveRun(ctx, store.RunRecord{
			Name:        strat.Name(),
			Parameters:  outcome.params,
			TotalReturn: outcome.metrics.TotalReturn,
			SharpeRatio: outcome.metrics.SharpeRatio,
			MaxDrawdown: outcome.metrics.MaxDrawdown,
			Tickers:     outcome.tickers,
			StartDate:   start,
			EndDate:     end,
		})
		if err != nil {
			return err
		}
		a.logger.Info("运行记录已保存", zap.Int64("id", id))
	}

	return nil
}

// shouldOptimise 判断是否执行参数寻优：买入持有没有参数空间，
// 即使配置开启寻优也退化为单次回测。
func shouldOptimise(kind strategy.Type, enabled bool) bool {
	return enabled && kind != strategy.TypeBuyAndHold
}

// runAutoSelect 先用市值排序构建候选池，再做标的/配对组合搜索。
func (a *App) runAutoSelect(ctx context.Context, kind strategy.Type, selector *screener.Selector, start, end time.Time) (*runOutcome, error) {
	topN := a.cfg.Screener.TopNSingle
	if kind == strategy.TypePairsTrading {
		topN = a.cfg.Screener.TopNPairs
	}

	companies, err := selector.TopCompanies(ctx, a.cfg.Screener.Tickers, topN)
	if err != nil {
		return nil, err
	}
	a.logger.Info("候选池构建完成", zap.Int("companies", len(companies)))

	if kind == strategy.TypePairsTrading {
		sel, err := selector.SelectPair(ctx, screener.PairRequest{
			Companies:         companies,
			Params:            a.cfg.Strategy.Params(),
			Space:             optimise.DefaultSpace(kind),
			Optimise:          shouldOptimise(kind, a.cfg.Strategy.Optimise),
			FilterSameCompany: a.cfg.Screener.FilterSameCompany,
			Start:             start,
			End:               end,
		})
		if err != nil {
			return nil, err
		}
		return &runOutcome{
			tickers: []string{sel.Ticker1, sel.Ticker2},
			params:  sel.Params,
			metrics: sel.Metrics,
		}, nil
	}

	sel, err := selector.SelectTicker(ctx, screener.SingleRequest{
		Companies: companies,
		Kind:      kind,
		Params:    a.cfg.Strategy.Params(),
		Space:     optimise.DefaultSpace(kind),
		Optimise:  shouldOptimise(kind, a.cfg.Strategy.Optimise),
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, err
	}
	return &runOutcome{
		tickers: []string{sel.Ticker},
		params:  sel.Params,
		metrics: sel.Metrics,
	}, nil
}

// runManual 在配置指定的标的上执行单次回测或参数寻优。
func (a *App) runManual(ctx context.Context, kind strategy.Type, client *marketdata.Client, start, end time.Time) (*runOutcome, error) {
	var (
		tickers []string
		data    series.PriceSeries
		err     error
	)
	if kind == strategy.TypePairsTrading {
		tickers = []string{a.cfg.Strategy.Ticker1, a.cfg.Strategy.Ticker2}
		data, err = client.LoadPair(ctx, a.cfg.Strategy.Ticker1, a.cfg.Strategy.Ticker2, start, end)
	} else {
		tickers = []string{a.cfg.Strategy.Ticker}
		data, err = client.LoadSingle(ctx, a.cfg.Strategy.Ticker, start, end)
	}
	if err != nil {
		return nil, err
	}
	if data.Len() == 0 {
		return nil, fmt.Errorf("app: %v 在所选区间内无可用数据", tickers)
	}

	capitalOpt := backtest.WithInitialCapital(a.cfg.Backtest.InitialCapital)

	if shouldOptimise(kind, a.cfg.Strategy.Optimise) {
		optimiser := optimise.New(a.logger, capitalOpt)
		result, err := optimiser.Optimise(data, kind, optimise.DefaultSpace(kind))
		if err != nil {
			return nil, err
		}
		return &runOutcome{tickers: tickers, params: result.Params, metrics: result.Metrics}, nil
	}

	params := a.cfg.Strategy.Params()
	strat, err := strategy.New(kind, params)
	if err != nil {
		return nil, err
	}
	bt := backtest.New(data, strat, capitalOpt, backtest.WithLogger(a.logger))
	if _, err := bt.Run(); err != nil {
		return nil, err
	}
	return &runOutcome{tickers: tickers, params: params, metrics: *bt.PerformanceMetrics()}, nil
}
