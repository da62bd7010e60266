package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohammed-shakir/georelate/internal/api"
	"github.com/mohammed-shakir/georelate/internal/cache"
	"github.com/mohammed-shakir/georelate/internal/cache/redisstore"
	"github.com/mohammed-shakir/georelate/internal/config"
	"github.com/mohammed-shakir/georelate/internal/events"
	"github.com/mohammed-shakir/georelate/internal/health"
	"github.com/mohammed-shakir/georelate/internal/logger"
	"github.com/mohammed-shakir/georelate/internal/observability"
	"github.com/mohammed-shakir/georelate/internal/server"
	"github.com/mohammed-shakir/georelate/pkg/diag"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	addrFlag := flag.String("addr", "", "listen address (overrides ADDR)")
	flag.Parse()

	cfg := config.FromEnv()
	if *addrFlag != "" {
		cfg.Addr = strings.TrimSpace(*addrFlag)
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Component: "georelate",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	diagLog := zl.With().Str("subsystem", "geometry").Logger()
	diag.SetLogger(&diagLog)
	diag.SetHook(func(c diag.Code) { observability.IncDiagnostic(string(c)) })

	observability.ExposeBuildInfo(Version)
	appLog.Info("starting georelate", "addr", cfg.Addr, "version", Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]health.Checker{}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		var remote cache.Remote
		if cfg.Cache.RedisAddr != "" {
			rc, err := redisstore.New(ctx, cfg.Cache.RedisAddr)
			if err != nil {
				appLog.Error("redis setup failed", "err", err)
				return 1
			}
			defer func() { _ = rc.Close() }()
			remote = rc
			checks["redis"] = rc
		}
		resultCache = cache.New(cache.Config{
			Size:      cfg.Cache.Size,
			TTL:       cfg.Cache.TTL,
			OpTimeout: cfg.Cache.OpTimeout,
		}, remote, appLog.With("subsystem", "cache"))
	}

	var sink events.Sink
	if cfg.Events.Enabled {
		pub, err := events.Dial(cfg.Events.Brokers, cfg.Events.Topic, cfg.Events.Queue, appLog.With("subsystem", "events"))
		if err != nil {
			appLog.Error("events setup failed", "err", err)
			return 1
		}
		defer func() {
			if err := pub.Close(); err != nil {
				appLog.Warn("events close", "err", err)
			}
		}()
		sink = pub
	}

	h := api.New(api.Options{
		Logger:      appLog,
		Cache:       resultCache,
		Events:      sink,
		IDAttribute: cfg.ArcGISIDAttribute,
	})

	if err := server.Run(ctx, cfg, appLog, server.Router(cfg, appLog, h, checks)); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
