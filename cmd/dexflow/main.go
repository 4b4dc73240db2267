// Package main is the entry point for the dexflow liquidity aggregator.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/novaledger/dexflow/business/execution"
	"github.com/novaledger/dexflow/business/liquidity"
	liquidityDI "github.com/novaledger/dexflow/business/liquidity/di"
	"github.com/novaledger/dexflow/business/monitor"
	"github.com/novaledger/dexflow/internal/apm"
	"github.com/novaledger/dexflow/internal/config"
	"github.com/novaledger/dexflow/internal/health"
	"github.com/novaledger/dexflow/internal/logger"
	"github.com/novaledger/dexflow/internal/metrics"
	"github.com/novaledger/dexflow/internal/monolith"
	"github.com/novaledger/dexflow/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("dexflow %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know
	cfg.App.TUIMode = tuiMode

	logLevel := logger.ParseLevel(cfg.App.LogLevel)

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting dexflow",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Health check server on port 8081
	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Modules in dependency order
	modules := []monolith.Module{
		&liquidity.Module{}, // Must be first - registers providers
		&execution.Module{}, // Depends on the provider registry
		&monitor.Module{},   // Depends on the aggregator
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// Readiness reflects whether any provider adapters are registered.
	healthServer.RegisterCheck("providers", func(_ context.Context) (bool, string) {
		n := liquidityDI.GetProviderRegistry(mono.Services()).Len()
		if n == 0 {
			return false, "no liquidity providers registered"
		}
		return true, fmt.Sprintf("%d providers registered", n)
	})

	if tuiMode {
		startFunc := func() error {
			if err := mono.StartModules(ctx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			return nil
		}
		return runTUI(ctx, startFunc)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	return runCLI(ctx, log)
}

func runCLI(ctx context.Context, log *logger.Logger) error {
	log.Info(ctx, "all modules started, monitor scheduler running")

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, startFunc func() error) error {
	// The TUI invokes this in the background once it has booted.
	ui.OnStartModules = startFunc

	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	// Quit the TUI when the outer context is cancelled.
	go func() {
		<-ctx.Done()
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
