package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/kalshibot/config"
	"github.com/alejandrodnm/kalshibot/internal/adapters/kalshi"
	"github.com/alejandrodnm/kalshibot/internal/adapters/notify"
	"github.com/alejandrodnm/kalshibot/internal/adapters/research"
	"github.com/alejandrodnm/kalshibot/internal/adapters/storage"
	"github.com/alejandrodnm/kalshibot/internal/application/engine"
	"github.com/alejandrodnm/kalshibot/internal/application/screener"
	"github.com/alejandrodnm/kalshibot/internal/domain"
	"github.com/alejandrodnm/kalshibot/internal/strategy"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	stratName := flag.String("strategy", "", "trading profile: same_day|weekly (overrides config)")
	once := flag.Bool("once", false, "run one decision cycle and exit")
	dryRun := flag.Bool("dry-run", false, "evaluate and report without sending orders")
	demo := flag.Bool("demo", false, "use the demo exchange (paper money)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full cycle table (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *stratName != "" {
		cfg.Trading.Strategy = *stratName
	}
	strat, ok := strategy.NewRegistry().Get(cfg.Trading.Strategy)
	if !ok {
		slog.Error("unknown strategy", "strategy", cfg.Trading.Strategy)
		os.Exit(1)
	}
	if cfg.Trading.MinEdge > 0 {
		strat.MinEdge = cfg.Trading.MinEdge
	}

	slog.Info("kalshibot starting",
		"config", *configPath,
		"strategy", strat.Name,
		"interval", cfg.CycleInterval(),
		"dry_run", *dryRun,
		"demo", *demo,
		"once", *once,
	)

	creds, err := kalshi.LoadCredentialsFromEnv()
	if err != nil {
		slog.Error("failed to load credentials", "err", err)
		os.Exit(1)
	}

	base := cfg.API.Base
	if *demo {
		base = kalshi.DemoBase
	}
	client := kalshi.NewClient(base, creds)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	notifier := notify.NewConsole(*table)
	estimates := research.NewFileSource(cfg.Research.EstimatesPath)

	engCfg := engine.Config{
		Edge: domain.EdgeConfig{
			MinEdge:    strat.MinEdge,
			MinSources: cfg.Trading.MinSources,
		},
		Sizing: domain.SizingConfig{
			KellyFraction:    cfg.Trading.KellyFraction,
			MaxPositionPct:   cfg.Trading.MaxPositionPct,
			MinCashReserve:   cfg.Trading.MinCashReserve,
			MinCashPct:       cfg.Trading.MinCashPct,
			MaxOpenPositions: cfg.Trading.MaxOpenPositions,
			MinBetUSD:        cfg.Trading.MinBetUSD,
		},
		Risk: domain.RiskConfig{
			DrawdownPct:     cfg.Risk.DrawdownPct,
			PositionLossPct: cfg.Risk.PositionLossPct,
			ShrinkFactor:    cfg.Risk.ShrinkFactor,
			MaxLossStreak:   cfg.Risk.MaxLossStreak,
			BalanceFloorUSD: cfg.Risk.BalanceFloorUSD,
		},
		Screen: screener.Config{
			MinVolume24h:      cfg.Screener.MinVolume24h,
			MinLiquidityCents: cfg.Screener.MinLiquidityCents,
			MaxSpreadCents:    cfg.Screener.MaxSpreadCents,
			MaxResults:        cfg.Screener.MaxResults,
			WeightVolume:      cfg.Screener.WeightVolume,
			WeightSpread:      cfg.Screener.WeightSpread,
			WeightLiquidity:   cfg.Screener.WeightLiquidity,
		},
		Interval:       cfg.CycleInterval(),
		SnapshotMaxAge: cfg.CycleInterval(),
		DryRun:         *dryRun,
	}

	eng := engine.New(engCfg, strat, client, client, client, estimates, store, notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		if _, err := eng.RunOnce(ctx); err != nil {
			slog.Error("cycle failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("engine exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("kalshibot stopped cleanly")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
