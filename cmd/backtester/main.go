package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"quantsim/internal/engine"
	"quantsim/internal/metrics"
	"quantsim/internal/optimize"
	"quantsim/internal/repository"
	"quantsim/strategies/meanrev"
	"quantsim/strategies/momentum"
	"quantsim/strategies/multiindicator"
	"quantsim/types"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

var strategyFactories = map[string]engine.Factory{
	"momentum":        func() engine.Strategy { return momentum.New() },
	"meanrev":         func() engine.Strategy { return meanrev.New() },
	"multi_indicator": func() engine.Strategy { return multiindicator.New() },
}

func main() {
	configPath := flag.String("config", "quantsim.yaml", "path to config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(context.Background(), *configPath, logger); err != nil {
		logger.Fatal("backtester failed", zap.Error(err))
	}
}

func run(ctx context.Context, configPath string, logger *zap.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	factory, ok := strategyFactories[cfg.Strategy]
	if !ok {
		return fmt.Errorf("unknown strategy %q", cfg.Strategy)
	}
	target := metrics.OptimizationTarget(cfg.Target)
	if !target.Valid() {
		return fmt.Errorf("unknown optimization target %q", cfg.Target)
	}

	engCfg, err := cfg.engineConfig()
	if err != nil {
		return err
	}
	ranges, err := cfg.paramRanges()
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return fmt.Errorf("config defines no parameter ranges")
	}

	var db *repository.Database
	if cfg.DatabaseURL != "" {
		db, err = repository.NewDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
	}

	bars, err := loadBars(ctx, cfg, db)
	if err != nil {
		return err
	}
	logger.Info("price series loaded",
		zap.String("strategy", cfg.Strategy),
		zap.String("target", target.Name()),
		zap.Int("bars", len(bars)))

	opt := optimize.New(ranges, target).
		WithConfig(engCfg).
		WithMaxParallel(cfg.MaxParallel).
		WithProgress(progressFunc(newProgress)).
		WithLogger(logger)

	var results []optimize.Result
	if cfg.RandomSamples > 0 {
		results, err = opt.RandomSearch(ctx, bars, factory, cfg.RandomSamples, cfg.RandomSeed)
	} else {
		results, err = opt.GridSearch(ctx, bars, factory)
	}
	fmt.Println()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("no combination completed")
	}

	top := opt.TopN(results, cfg.TopN)
	renderResults(top, target)

	if cfg.SaveResults && db != nil {
		for _, r := range top {
			row, err := repository.NewBacktestRow(cfg.Strategy, r.Params, r.Simulation, r.Report)
			if err != nil {
				return err
			}
			id, err := db.SaveResult(ctx, row)
			if err != nil {
				return fmt.Errorf("save result: %w", err)
			}
			logger.Info("result saved", zap.Int64("id", id))
		}
	}
	return nil
}

func loadBars(ctx context.Context, cfg *appConfig, db *repository.Database) ([]types.PriceBar, error) {
	if cfg.CSVPath != "" {
		return loadBarsCSV(cfg.CSVPath)
	}
	if db == nil {
		return nil, fmt.Errorf("no price source configured: set csv_path or database_url")
	}
	start, err := time.Parse(time.RFC3339, cfg.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, cfg.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return db.GetBars(ctx, cfg.Symbol, start, end)
}

// progressFunc builds the bar on the first callback, sized to the reported
// total; the sampler may evaluate fewer combinations than were requested.
func progressFunc(newBar func(total int) *progressbar.ProgressBar) optimize.ProgressFunc {
	var once sync.Once
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		once.Do(func() { bar = newBar(total) })
		bar.Set(done)
	}
}

func newProgress(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("simulating"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
	)
}

func renderResults(results []optimize.Result, target metrics.OptimizationTarget) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{
		"#", "Parameters", target.Name(), "Return", "Sharpe", "Max DD", "Win Rate", "Trades", "Score",
	})
	for i, r := range results {
		params, _ := r.Params.JSON()
		t.AppendRow(table.Row{
			i + 1,
			params,
			fmt.Sprintf("%.4f", r.Objective),
			fmt.Sprintf("%.2f%%", r.Report.TotalReturn*100),
			fmt.Sprintf("%.2f", r.Report.SharpeRatio),
			fmt.Sprintf("%.2f%%", r.Report.MaxDrawdown*100),
			fmt.Sprintf("%.2f%%", r.Report.WinRate*100),
			r.Simulation.TotalTrades,
			fmt.Sprintf("%.1f", r.Report.Score()),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
