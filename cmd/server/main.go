package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apihttp "github.com/GriffinCanCode/simple-nfs/internal/api/http"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/config"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/logging"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/simple-nfs/internal/providers/filesystem"
	"github.com/GriffinCanCode/simple-nfs/internal/server"
)

func main() {
	err := run(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "nfsserver: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the environment first and lets flags override it. A
// malformed variable is an error, never a silent fall back to defaults.
func loadConfig(args []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("nfsserver", flag.ContinueOnError)
	fs.StringVar(&cfg.Storage.Root, "root", cfg.Storage.Root, "Directory to export")
	fs.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "Listen host")
	fs.StringVar(&cfg.Server.Port, "port", cfg.Server.Port, "Listen port")
	fs.DurationVar(&cfg.Server.ConnTimeout, "conn-timeout", cfg.Server.ConnTimeout, "Per-connection deadline (0 = none)")
	fs.BoolVar(&cfg.Storage.Contain, "contain", cfg.Storage.Contain, "Reject paths resolving outside the root")
	fs.BoolVar(&cfg.Protocol.EmbedErrors, "embed-errors", cfg.Protocol.EmbedErrors, "Send OS error text with failed listings")
	fs.BoolVar(&cfg.Logging.Development, "dev", cfg.Logging.Development, "Development logging (console, debug)")
	admin := fs.String("admin", "", "Serve /health and /metrics on this address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *admin != "" {
		cfg.Admin.Enabled = true
		cfg.Admin.Addr = *admin
	}
	return cfg, nil
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	resolver, err := filesystem.NewResolver(cfg.Storage.Root, cfg.Storage.Contain)
	if err != nil {
		return err
	}
	if !cfg.Storage.Contain {
		logger.Warn("Path containment disabled, clients may reach files outside the root")
	}
	if cfg.Server.ConnTimeout == 0 {
		logger.Warn("No connection timeout, a stalled client blocks the server")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(reg)

	srv := server.New(cfg, resolver, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})
	if cfg.Admin.Enabled {
		handlers := apihttp.NewHandlers(metrics, srv.Breaker(), resolver.Root())
		router := apihttp.NewRouter(cfg.Admin, handlers, logger.Logger, cfg.Logging.Development)
		g.Go(func() error {
			return apihttp.Serve(ctx, cfg.Admin.Addr, router, logger.Logger)
		})
	}

	err = g.Wait()
	logger.Info("Shut down", zap.Error(err))
	return err
}
