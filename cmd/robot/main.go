package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/frcbot/config"
	"github.com/alejandrodnm/frcbot/internal/adapters/exchange"
	"github.com/alejandrodnm/frcbot/internal/adapters/keygen"
	"github.com/alejandrodnm/frcbot/internal/adapters/notify"
	"github.com/alejandrodnm/frcbot/internal/adapters/storage"
	"github.com/alejandrodnm/frcbot/internal/metrics"
	"github.com/alejandrodnm/frcbot/internal/pool"
	"github.com/alejandrodnm/frcbot/internal/robot"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file (optional, env vars override)")
	accounts := flag.Int("accounts", 0, "accounts to generate per pool when no bootstrap file exists (default 10)")
	once := flag.Bool("once", false, "run one supply check and one buy check, then exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
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
	if *accounts > 0 {
		cfg.Accounts.Count = *accounts
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}

	slog.Info("frcbot starting",
		"token", cfg.Robot.Token,
		"exchange", cfg.API.ExchangeRPC,
		"node", cfg.NodeURL(),
		"supply_interval", cfg.SupplyInterval(),
		"buy_interval", cfg.BuyInterval(),
		"once", *once,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("connecting DB... ok", "dsn", cfg.Storage.DSN)

	manager := pool.New(pool.Config{
		Count:    cfg.Accounts.Count,
		MintFile: cfg.Accounts.MintFile,
		BuyFile:  cfg.Accounts.BuyFile,
	}, keygen.NewEd25519(nil), store)

	pools, err := manager.Provision(ctx)
	if err != nil {
		slog.Error("failed to provision accounts", "err", err)
		os.Exit(1)
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, store); err != nil {
				slog.Error("metrics server failed", "err", err, "addr", cfg.Metrics.Addr)
			}
		}()
	}

	client := exchange.NewClient(cfg.API.ExchangeRPC, cfg.NodeURL())
	console := notify.NewConsole(client.NodeURL())

	robotCfg := robot.DefaultConfig()
	robotCfg.Token = cfg.Robot.Token
	robotCfg.PageSize = cfg.Robot.PageSize
	robotCfg.SupplyInterval = cfg.SupplyInterval()
	robotCfg.BuyInterval = cfg.BuyInterval()
	robotCfg.CallTimeout = cfg.CallTimeout()
	robotCfg.SumThreshold = cfg.SumThreshold()
	robotCfg.FloorPrices = cfg.Robot.FloorPrices

	sched, err := robot.New(robotCfg, client, pools, console, console, store)
	if err != nil {
		slog.Error("failed to create scheduler", "err", err)
		os.Exit(1)
	}
	state := sched.InitialState(cfg.StartPriceIndex())

	if *once {
		if _, err := sched.RunOnce(ctx, state); err != nil {
			slog.Error("run once failed", "err", err)
			os.Exit(1)
		}
		return
	}

	final, err := sched.Run(ctx, state)
	if err != nil {
		slog.Error("scheduler exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("frcbot stopped cleanly", "price_index", final.PriceIndex, "account_index", final.AccountIndex)
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
