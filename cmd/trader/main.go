package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dominolu/dex-opinion/config"
	"github.com/dominolu/dex-opinion/internal/adapters/notify"
	"github.com/dominolu/dex-opinion/internal/adapters/opinion"
	"github.com/dominolu/dex-opinion/internal/adapters/storage"
	"github.com/dominolu/dex-opinion/internal/adapters/surface"
	"github.com/dominolu/dex-opinion/internal/oracle"
	"github.com/dominolu/dex-opinion/internal/trader"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full cycle table on session end")
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

	slog.Info("trader starting",
		"config", *configPath,
		"topic", cfg.Market.TopicID,
		"option", cfg.Market.OptionLabel,
		"mode", cfg.Trade.Mode,
		"bridge", cfg.Bridge.Listen,
	)

	client := opinion.NewClient(cfg.API.Base, cfg.API.ChainID)

	journal, err := storage.NewSQLiteJournal(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open journal", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer journal.Close()

	if prev, err := journal.RecentCycles(context.Background(), 1); err == nil && len(prev) > 0 {
		slog.Info("journal has previous cycles",
			"last_cycle", prev[0].Number,
			"last_strategy", prev[0].Strategy,
			"last_started", prev[0].StartedAt.Format("2006-01-02 15:04:05"),
		)
	}

	bridge := surface.NewBridge()

	notifier := notify.NewConsole(*table)

	orc := oracle.New(client, bridge, oracle.Config{
		Wallet:      cfg.API.Wallet,
		TopicID:     cfg.Market.TopicID,
		Floor:       cfg.Trade.MinPositionValue,
		UseAPIFirst: cfg.UseAPIFirst(),
	})

	traderCfg := cfg.TraderConfig()
	resolver := trader.NewResolver(client)
	taker := trader.NewTaker(resolver, orc, bridge, traderCfg)
	maker := trader.NewMaker(resolver, client, client, orc, bridge, traderCfg)
	session := trader.NewSession(traderCfg, taker, maker, bridge, journal, notifier)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		if err := bridge.Serve(ctx, cfg.Bridge.Listen); err != nil {
			slog.Error("bridge server exited", "err", err)
			cancel()
		}
	}()

	err = session.Start(ctx)
	switch {
	case errors.Is(err, trader.ErrRedirected):
		slog.Warn("surface was not on the target market — navigated there; restart to trade")
	case err != nil && !errors.Is(err, context.Canceled):
		slog.Error("session exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("trader stopped cleanly")
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
