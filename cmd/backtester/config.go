package main

import (
	"fmt"
	"runtime"
	"strings"

	"quantsim/internal/engine"
	"quantsim/internal/optimize"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// rangeConfig is one parameter axis as it appears in the config file.
type rangeConfig struct {
	Type string  `mapstructure:"type"`
	Min  float64 `mapstructure:"min"`
	Max  float64 `mapstructure:"max"`
	Step float64 `mapstructure:"step"`
}

type appConfig struct {
	DatabaseURL string `mapstructure:"database_url"`
	CSVPath     string `mapstructure:"csv_path"`

	Symbol string `mapstructure:"symbol"`
	Start  string `mapstructure:"start"`
	End    string `mapstructure:"end"`

	Strategy string `mapstructure:"strategy"`
	Target   string `mapstructure:"target"`

	InitialBalance string  `mapstructure:"initial_balance"`
	CommissionRate float64 `mapstructure:"commission_rate"`
	Slippage       float64 `mapstructure:"slippage"`

	MaxParallel   int   `mapstructure:"max_parallel"`
	RandomSamples int   `mapstructure:"random_samples"`
	RandomSeed    int64 `mapstructure:"random_seed"`
	TopN          int   `mapstructure:"top_n"`
	SaveResults   bool  `mapstructure:"save_results"`

	Ranges map[string]rangeConfig `mapstructure:"ranges"`
}

func loadConfig(path string) (*appConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("strategy", "momentum")
	v.SetDefault("target", "overall_score")
	v.SetDefault("initial_balance", "1000000")
	v.SetDefault("commission_rate", 0.0005)
	v.SetDefault("slippage", 0.0)
	v.SetDefault("max_parallel", runtime.GOMAXPROCS(0))
	v.SetDefault("top_n", 10)

	v.SetEnvPrefix("QUANTSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg appConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (c *appConfig) engineConfig() (engine.Config, error) {
	balance, err := decimal.NewFromString(c.InitialBalance)
	if err != nil {
		return engine.Config{}, fmt.Errorf("initial_balance: %w", err)
	}
	cfg := engine.NewConfig(balance).
		WithCommission(decimal.NewFromFloat(c.CommissionRate)).
		WithSlippage(decimal.NewFromFloat(c.Slippage))
	return cfg, cfg.Validate()
}

func (c *appConfig) paramRanges() (map[string]optimize.ParamRange, error) {
	ranges := make(map[string]optimize.ParamRange, len(c.Ranges))
	for name, rc := range c.Ranges {
		switch rc.Type {
		case "int":
			ranges[name] = optimize.IntRange{Min: int(rc.Min), Max: int(rc.Max), Step: int(rc.Step)}
		case "float", "":
			ranges[name] = optimize.FloatRange{Min: rc.Min, Max: rc.Max, Step: rc.Step}
		default:
			return nil, fmt.Errorf("range %q: unknown type %q", name, rc.Type)
		}
	}
	return ranges, nil
}
