package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/dirdns/internal/dns/common/clock"
	"github.com/haukened/dirdns/internal/dns/common/log"
	"github.com/haukened/dirdns/internal/dns/common/metrics"
	"github.com/haukened/dirdns/internal/dns/config"
	"github.com/haukened/dirdns/internal/dns/gateways/transport"
	"github.com/haukened/dirdns/internal/dns/repos/zone"
	"github.com/haukened/dirdns/internal/dns/services/resolver"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "dirdnsd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the DNS server
type Application struct {
	config     *config.AppConfig
	logger     log.Logger
	resolver   *resolver.Resolver
	transports []resolver.ServerTransport
	metrics    *metrics.Server
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Info(map[string]any{
		"app":             appName,
		"version":         version,
		"env":             cfg.Env,
		"log_level":       cfg.LogLevel,
		"address":         cfg.ListenAddr(),
		"transports":      cfg.Transports,
		"zone_dir":        cfg.ZoneDir,
		"max_udp_size":    cfg.MaxUDPSize,
		"max_cname_depth": cfg.MaxCNAMEDepth,
		"index_size":      cfg.IndexSize,
	}, "Starting dirdns server")

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Fatal(map[string]any{"error": err.Error()}, "Failed to build application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		logger.Fatal(map[string]any{"error": err.Error()}, "Server failed")
	}

	logger.Info(nil, "dirdns server stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig, logger log.Logger) (*Application, error) {
	store, err := zone.New(cfg.ZoneDir, cfg.IndexSize, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open zone directory: %w", err)
	}

	res := resolver.NewResolver(resolver.ResolverOptions{
		Zones:         store,
		MaxCNAMEDepth: cfg.MaxCNAMEDepth,
	})

	opts := transport.Options{
		MaxUDPSize:  cfg.MaxUDPSize,
		IdleTimeout: cfg.TCPIdleTimeout,
		Clock:       clock.RealClock{},
	}
	var transports []resolver.ServerTransport
	for _, kind := range cfg.Transports {
		t, err := transport.NewTransport(transport.TransportType(kind), cfg.ListenAddr(), opts, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build %s transport: %w", kind, err)
		}
		transports = append(transports, t)
	}

	app := &Application{
		config:     cfg,
		logger:     logger,
		resolver:   res,
		transports: transports,
	}
	if cfg.MetricsAddr != "" {
		app.metrics = metrics.NewServer(cfg.MetricsAddr, logger)
	}
	return app, nil
}

// Run starts every transport and blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, t := range app.transports {
		if err := t.Start(ctx, app.resolver); err != nil {
			for _, started := range app.transports[:i] {
				_ = started.Stop()
			}
			return fmt.Errorf("failed to start transport on %s: %w", t.Address(), err)
		}
	}
	if app.metrics != nil {
		app.metrics.Start()
	}

	app.logger.Info(map[string]any{
		"address":    app.config.ListenAddr(),
		"transports": app.config.Transports,
	}, "DNS server started")

	<-ctx.Done()
	app.logger.Info(nil, "Shutdown initiated")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancelShutdown()

	var errs []error
	for _, t := range app.transports {
		if err := t.Stop(); err != nil {
			app.logger.Warn(map[string]any{"error": err.Error()}, "Error during transport shutdown")
			errs = append(errs, err)
		}
	}
	if app.metrics != nil {
		if err := app.metrics.Stop(shutdownCtx); err != nil {
			app.logger.Warn(map[string]any{"error": err.Error()}, "Error during metrics shutdown")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
