package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/kalshibot/config"
	"github.com/alejandrodnm/kalshibot/internal/adapters/feeds"
	"github.com/alejandrodnm/kalshibot/internal/adapters/kalshi"
	"github.com/alejandrodnm/kalshibot/internal/adapters/notify"
	"github.com/alejandrodnm/kalshibot/internal/adapters/storage"
	"github.com/alejandrodnm/kalshibot/internal/application/classify"
	"github.com/alejandrodnm/kalshibot/internal/application/engine"
	"github.com/alejandrodnm/kalshibot/internal/application/models"
	"github.com/alejandrodnm/kalshibot/internal/ports"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one cycle and exit")
	resolve := flag.Bool("resolve", false, "run one resolution pass and exit")
	stats := flag.Bool("stats", false, "print trade history and bankroll, then exit")
	closeID := flag.String("close", "", "sell an open trade by ID at -exit price, then exit")
	exitPrice := flag.Float64("exit", 0, "exit price for -close, in [0,1]")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full tables (default: compact 1-line)")
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

	slog.Info("kalshibot starting",
		"config", *configPath,
		"interval", cfg.CycleInterval(),
		"bankroll", cfg.Trading.StartingBankroll,
		"dry_run", cfg.Trading.DryRun,
		"once", *once,
	)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	console := notify.NewConsole(*table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, stream := buildEngine(cfg, store, console, *once)
	if stream != nil {
		stream.Start(ctx)
		defer stream.Stop()
	}

	switch {
	case *stats:
		runStats(ctx, eng, store, console, cfg.Trading.StartingBankroll)
	case *resolve:
		runResolve(ctx, eng)
	case *closeID != "":
		runClose(ctx, eng, *closeID, *exitPrice)
	default:
		if err := eng.Run(ctx); err != nil {
			slog.Error("engine exited with error", "err", err)
			os.Exit(1)
		}
		slog.Info("kalshibot stopped cleanly")
	}
}

// buildEngine cablea provider, modelos, notifiers y price stream.
func buildEngine(cfg *config.Config, store *storage.SQLiteStorage, console *notify.Console, once bool) (*engine.Engine, *kalshi.Stream) {
	provider := classify.NewProvider(kalshi.NewClient(cfg.API.RESTBase))

	var feed ports.DataFeed
	if cfg.Trading.DryRun || cfg.Models.FeedBase == "" {
		feed = feeds.NewStaticFeed(nil)
	} else {
		feed = feeds.NewHTTPFeed(cfg.Models.FeedBase)
	}
	cached := models.NewCachedFeed(feed, models.NewTTLCache(cfg.CacheTTL()))

	runner := models.NewRunner()
	runner.Register(models.NewWeatherModel(cached))
	runner.Register(models.NewEconModel(cached))
	runner.Register(models.NewFedModel(cached))

	notifier := notify.Multi{console}
	if cfg.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			slog.Error("failed to create telegram notifier", "err", err)
			os.Exit(1)
		}
		notifier = append(notifier, tg)
	}

	var prices *engine.PriceBook
	var stream *kalshi.Stream
	if cfg.API.Stream && !cfg.Trading.DryRun && !once {
		prices = engine.NewPriceBook()
		stream = kalshi.NewStream(cfg.API.WSURL)
		go pumpPrices(stream, prices)
	}

	engCfg := engine.Config{
		Interval:         cfg.CycleInterval(),
		StartingBankroll: cfg.Trading.StartingBankroll,
		EstimateWindow:   cfg.EstimateWindow(),
		DryRun:           cfg.Trading.DryRun || once,
		Detector: engine.DetectorConfig{
			MinEdgePct:    cfg.Trading.MinEdgePct,
			MinConfidence: cfg.Trading.MinConfidence,
			BandLow:       cfg.Trading.BandLow,
			BandHigh:      cfg.Trading.BandHigh,
		},
		Sizing: engine.SizingPolicy{
			KellyMultiplier: cfg.Trading.KellyMultiplier,
			MaxPositionPct:  cfg.Trading.MaxPositionPct,
		},
	}

	return engine.New(engCfg, provider, runner, store, store, store, notifier, prices), stream
}

// pumpPrices vuelca el stream de precios al PriceBook.
func pumpPrices(stream *kalshi.Stream, prices *engine.PriceBook) {
	for update := range stream.Updates() {
		prices.Set(update.Ticker, update.Price)
	}
}

// runStats imprime el histórico del ledger y sale.
func runStats(ctx context.Context, eng *engine.Engine, store *storage.SQLiteStorage, console *notify.Console, starting float64) {
	trades, err := store.AllTrades(ctx)
	if err != nil {
		slog.Error("failed to load trades", "err", err)
		os.Exit(1)
	}
	bankroll, err := eng.Accountant().Snapshot(ctx)
	if err != nil {
		slog.Error("failed to compute bankroll", "err", err)
		os.Exit(1)
	}
	console.PrintStats(trades, bankroll, starting)
}

// runClose vende un trade abierto al precio dado y sale.
func runClose(ctx context.Context, eng *engine.Engine, id string, exitPrice float64) {
	trade, err := eng.Lifecycle().CloseTrade(ctx, id, exitPrice)
	if err != nil {
		slog.Error("close failed", "err", err, "id", id)
		os.Exit(1)
	}
	if trade == nil {
		slog.Warn("trade not open, nothing to close", "id", id)
		return
	}
	slog.Info("trade closed",
		"ticker", trade.Ticker,
		"exit", trade.ExitPrice,
		"revenue", trade.Revenue,
		"profit", trade.Profit,
		"profit_pct", trade.ProfitPct,
	)
}

// runResolve ejecuta una pasada de resolución y sale.
func runResolve(ctx context.Context, eng *engine.Engine) {
	report, err := eng.ResolveOnce(ctx)
	if err != nil {
		slog.Error("resolution pass failed", "err", err)
		os.Exit(1)
	}
	slog.Info("resolution complete",
		"resolved", report.Resolved,
		"wins", report.Wins,
		"losses", report.Losses,
		"profit", report.Profit,
	)
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
