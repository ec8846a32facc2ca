package config

import (
	"errors"
	"fmt"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "configs/config.yaml"
	envPrefix         = "quantlab"
)

// Load 读取配置文件并结合环境变量返回 Config。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = defaultConfigPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("未找到配置文件 %q: %w", path, err)
		}
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "development")

	v.SetDefault("data.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("data.timeout", "15s")

	v.SetDefault("backtest.initial_capital", 100000.0)

	v.SetDefault("strategy.type", "mean_reversion")
	v.SetDefault("strategy.optimise", false)
	v.SetDefault("strategy.ticker", "AAPL")
	v.SetDefault("strategy.ticker1", "AAPL")
	v.SetDefault("strategy.ticker2", "GOOGL")
	v.SetDefault("strategy.start_date", "2020-01-01")
	v.SetDefault("strategy.end_date", "2023-12-31")
	v.SetDefault("strategy.moving_average.short_window", 20)
	v.SetDefault("strategy.moving_average.long_window", 50)
	v.SetDefault("strategy.mean_reversion.window", 20)
	v.SetDefault("strategy.mean_reversion.std_dev", 2.0)
	v.SetDefault("strategy.pairs_trading.window", 50)
	v.SetDefault("strategy.pairs_trading.entry_z_score", 2.0)
	v.SetDefault("strategy.pairs_trading.exit_z_score", 0.5)

	v.SetDefault("screener.auto_select", false)
	v.SetDefault("screener.top_n_single", 100)
	v.SetDefault("screener.top_n_pairs", 20)
	v.SetDefault("screener.fetch_workers", 8)
	v.SetDefault("screener.filter_same_company", true)
	v.SetDefault("screener.tickers", defaultTickerUniverse)

	v.SetDefault("database.path", "data/quant_lab.db")
	v.SetDefault("database.max_open_conns", 4)
	v.SetDefault("database.max_idle_conns", 4)
	v.SetDefault("database.in_memory", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.output_paths", []string{"stdout"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})
}

// 默认候选池：缺省取一批大市值美股，实际候选池应通过配置给出。
var defaultTickerUniverse = []string{
	"AAPL", "MSFT", "GOOGL", "GOOG", "AMZN", "NVDA", "META", "BRK-B", "TSLA", "LLY",
	"V", "JPM", "UNH", "XOM", "MA", "JNJ", "PG", "HD", "AVGO", "COST",
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
