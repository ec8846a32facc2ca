package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// Config 聚合了系统运行所需的全部配置项。
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Data     DataConfig     `mapstructure:"data"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	Strategy StrategyConfig `mapstructure:"strategy"`
	Screener ScreenerConfig `mapstructure:"screener"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AppConfig 控制应用级参数。
type AppConfig struct {
	Environment string `mapstructure:"environment"`
}

// DataConfig 描述行情数据接口。
type DataConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BacktestConfig 控制回测参数。
type BacktestConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
}

// MovingAverageParams 为均线交叉策略的固定参数。
type MovingAverageParams struct {
	ShortWindow int `mapstructure:"short_window"`
	LongWindow  int `mapstructure:"long_window"`
}

// MeanReversionParams 为均值回归策略的固定参数。
type MeanReversionParams struct {
	Window int     `mapstructure:"window"`
	StdDev float64 `mapstructure:"std_dev"`
}

// PairsTradingParams 为配对交易策略的固定参数。
type PairsTradingParams struct {
	Window      int     `mapstructure:"window"`
	EntryZScore float64 `mapstructure:"entry_z_score"`
	ExitZScore  float64 `mapstructure:"exit_z_score"`
}

// StrategyConfig 描述待运行的策略、标的与时间区间。
type StrategyConfig struct {
	Type      string `mapstructure:"type"`
	Optimise  bool   `mapstructure:"optimise"`
	Ticker    string `mapstructure:"ticker"`
	Ticker1   string `mapstructure:"ticker1"`
	Ticker2   string `mapstructure:"ticker2"`
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`

	MovingAverage MovingAverageParams `mapstructure:"moving_average"`
	MeanReversion MeanReversionParams `mapstructure:"mean_reversion"`
	PairsTrading  PairsTradingParams  `mapstructure:"pairs_trading"`
}

// ScreenerConfig 控制自动选标的行为。
type ScreenerConfig struct {
	AutoSelect        bool     `mapstructure:"auto_select"`
	Tickers           []string `mapstructure:"tickers"`
	TopNSingle        int      `mapstructure:"top_n_single"`
	TopNPairs         int      `mapstructure:"top_n_pairs"`
	FetchWorkers      int      `mapstructure:"fetch_workers"`
	FilterSameCompany bool     `mapstructure:"filter_same_company"`
}

// DatabaseConfig 管理数据库连接。
type DatabaseConfig struct {
	Path         string `mapstructure:"path"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	InMemory     bool   `mapstructure:"in_memory"`
}

// LoggingConfig 控制日志输出。
type LoggingConfig struct {
	Level            string   `mapstructure:"level"`
	Encoding         string   `mapstructure:"encoding"`
	Development      bool     `mapstructure:"development"`
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

var strategyTypes = map[string]bool{
	"buy_and_hold":             true,
	"moving_average_crossover": true,
	"mean_reversion":           true,
	"pairs_trading":            true,
}

const dateLayout = "2006-01-02"

// Dates 解析回测起止日期。
func (c StrategyConfig) Dates() (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("解析 strategy.start_date 失败: %w", err)
	}
	end, err := time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("解析 strategy.end_date 失败: %w", err)
	}
	return start, end, nil
}

// Params 按策略类型返回固定参数表，键与优化维度名一致。
func (c StrategyConfig) Params() map[string]float64 {
	switch c.Type {
	case "moving_average_crossover":
		return map[string]float64{
			"short_window": float64(c.MovingAverage.ShortWindow),
			"long_window":  float64(c.MovingAverage.LongWindow),
		}
	case "mean_reversion":
		return map[string]float64{
			"window":  float64(c.MeanReversion.Window),
			"std_dev": c.MeanReversion.StdDev,
		}
	case "pairs_trading":
		return map[string]float64{
			"window":        float64(c.PairsTrading.Window),
			"entry_z_score": c.PairsTrading.EntryZScore,
			"exit_z_score":  c.PairsTrading.ExitZScore,
		}
	default:
		return map[string]float64{}
	}
}

// Validate 对配置进行基本校验。
func (c *Config) Validate() error {
	var err error

	if c.App.Environment == "" {
		err = multierr.Append(err, errors.New("app.environment 不能为空"))
	}
	if c.Data.BaseURL == "" {
		err = multierr.Append(err, errors.New("data.base_url 不能为空"))
	}
	if c.Data.Timeout <= 0 {
		err = multierr.Append(err, errors.New("data.timeout 必须大于0"))
	}
	if c.Backtest.InitialCapital <= 0 {
		err = multierr.Append(err, errors.New("backtest.initial_capital 必须大于0"))
	}
	if !strategyTypes[c.Strategy.Type] {
		err = multierr.Append(err, fmt.Errorf("strategy.type 不支持: %q", c.Strategy.Type))
	}
	if _, _, dateErr := c.Strategy.Dates(); dateErr != nil {
		err = multierr.Append(err, dateErr)
	} else {
		start, end, _ := c.Strategy.Dates()
		if !start.Before(end) {
			err = multierr.Append(err, errors.New("strategy.start_date 必须早于 end_date"))
		}
	}
	if c.Strategy.MovingAverage.ShortWindow <= 0 || c.Strategy.MovingAverage.LongWindow <= 0 {
		err = multierr.Append(err, errors.New("strategy.moving_average 窗口必须大于0"))
	}
	if c.Strategy.MeanReversion.Window <= 0 {
		err = multierr.Append(err, errors.New("strategy.mean_reversion.window 必须大于0"))
	}
	if c.Strategy.MeanReversion.StdDev <= 0 {
		err = multierr.Append(err, errors.New("strategy.mean_reversion.std_dev 必须大于0"))
	}
	if c.Strategy.PairsTrading.Window <= 0 {
		err = multierr.Append(err, errors.New("strategy.pairs_trading.window 必须大于0"))
	}
	if c.Strategy.PairsTrading.EntryZScore <= 0 || c.Strategy.PairsTrading.ExitZScore <= 0 {
		err = multierr.Append(err, errors.New("strategy.pairs_trading z 值阈值必须大于0"))
	}
	if c.Strategy.PairsTrading.ExitZScore >= c.Strategy.PairsTrading.EntryZScore {
		err = multierr.Append(err, errors.New("strategy.pairs_trading.exit_z_score 应小于 entry_z_score"))
	}
	if c.Screener.AutoSelect && len(c.Screener.Tickers) == 0 {
		err = multierr.Append(err, errors.New("screener.tickers 自动选标的时不能为空"))
	}
	if c.Screener.TopNSingle <= 0 || c.Screener.TopNPairs <= 0 {
		err = multierr.Append(err, errors.New("screener.top_n 必须大于0"))
	}
	if c.Screener.FetchWorkers <= 0 {
		err = multierr.Append(err, errors.New("screener.fetch_workers 必须大于0"))
	}
	if c.Database.Path == "" && !c.Database.InMemory {
		err = multierr.Append(err, errors.New("database.path 不能为空"))
	}
	if c.Database.MaxOpenConns <= 0 {
		err = multierr.Append(err, errors.New("database.max_open_conns 必须大于0"))
	}
	if c.Database.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("database.max_idle_conns 不能为负"))
	}
	if c.Logging.Level == "" {
		err = multierr.Append(err, errors.New("logging.level 不能为空"))
	}
	if c.Logging.Encoding == "" {
		err = multierr.Append(err, errors.New("logging.encoding 不能为空"))
	}
	if len(c.Logging.OutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.output_paths 至少包含一个输出目标"))
	}
	if len(c.Logging.ErrorOutputPaths) == 0 {
		err = multierr.Append(err, errors.New("logging.error_output_paths 至少包含一个输出目标"))
	}

	if err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}

	return nil
}
