package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/adapters/api"
	"github.com/andrescamacho/floorsense-go/internal/adapters/metrics"
	"github.com/andrescamacho/floorsense-go/internal/adapters/notify"
	"github.com/andrescamacho/floorsense-go/internal/adapters/scheduler"
	"github.com/andrescamacho/floorsense-go/internal/application/logging"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/config"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/dataset"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configPath := flag.String("config", "", "Path to config.yaml (default: search standard locations)")
	flag.Parse()

	fmt.Println("Floorsense Daemon v0.1.0")
	fmt.Println("========================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configPath)

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	err := pf.Acquire()
	if err != nil {
		if *forceFlag {
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// 1. Logging. Handlers reached without a context logger fall back to the
	// process default, so set it first.
	logger := cfg.Logging.NewLogger()
	slog.SetDefault(logger)
	ctx := logging.WithLogger(context.Background(), logger)

	// 2. Metrics registry and mediator middleware
	var middlewares []mediator.Middleware
	var engineCollector *metrics.EngineMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		commandCollector := metrics.NewCommandMetricsCollector()
		if err := commandCollector.Register(); err != nil {
			return fmt.Errorf("failed to register command metrics: %w", err)
		}

		engineCollector = metrics.NewEngineMetricsCollector()
		if err := engineCollector.Register(); err != nil {
			return fmt.Errorf("failed to register engine metrics: %w", err)
		}
		metrics.SetGlobalEngineCollector(engineCollector)

		middlewares = append(middlewares, metrics.PrometheusMiddleware(commandCollector, engineCollector))
		logger.Info("metrics enabled", "path", cfg.Metrics.Path)
	}

	// 3. Engine: stores, services, mediator, gateway
	clock := shared.NewSystemClock()
	start := clock.Now()
	engine, err := setup.NewEngine(start, cfg.Engine.Params(), middlewares...)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}
	logger.Info("engine built",
		"dedup_window", engine.Params.DedupWindow,
		"presence_ttl", engine.Params.PresenceTTL,
	)

	// 4. Seed dataset, then project rules and compute the first snapshots
	store, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return err
	}
	if err := dataset.Apply(ctx, engine, store, start); err != nil {
		return err
	}
	if err := engine.Bootstrap(ctx); err != nil {
		return err
	}
	name := cfg.Dataset.Path
	if name == "" {
		name = "built-in demo store"
	}
	logger.Info("dataset loaded",
		"dataset", name,
		"locations", len(store.Locations),
		"skus", len(store.SKUs),
		"templates", len(store.Templates),
		"staff", len(store.Staff),
	)

	// 5. Workload gauges read the stores at scrape time, outside the engine
	// lock; the in-memory stores are individually thread-safe.
	if cfg.Metrics.Enabled {
		err := metrics.RegisterEngineGauges(
			func() float64 {
				open, err := engine.Tasks.FindOpen(context.Background())
				if err != nil {
					return 0
				}
				return float64(len(open))
			},
			func() float64 {
				inTransit, err := engine.Orders.FindInTransit(context.Background())
				if err != nil {
					return 0
				}
				return float64(len(inTransit))
			},
		)
		if err != nil {
			return fmt.Errorf("failed to register engine gauges: %w", err)
		}
	}

	// 6. Webhook notifier for task/order lifecycle events
	notifyCtx, stopNotifier := context.WithCancel(ctx)
	defer stopNotifier()
	notifier := notify.NewNotifier(cfg.Webhook, logger)
	engine.Trail.AddFlowHook(notifier.HandleFlow)
	go notifier.Run(notifyCtx)

	// 7. Background zone sweep
	var sweeper *scheduler.Sweeper
	if cfg.Engine.AutoSweep {
		sweeper, err = scheduler.NewSweeper(engine.Mediator, cfg.Engine.SweepInterval(), clock, logger)
		if err != nil {
			return err
		}
		if err := sweeper.Start(); err != nil {
			return err
		}
	}

	// 8. HTTP API
	server := api.NewServer(cfg, engine.Mediator, engine.Trail, logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// 9. Block until a signal or a server fault, then unwind in reverse
	// start order.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-signals:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return err
		}
	}

	// A hung websocket or sweep must not keep the process alive forever.
	shutdownTimer := time.AfterFunc(cfg.Daemon.ShutdownTimeout, func() {
		logger.Error("graceful shutdown timed out, exiting")
		os.Exit(1)
	})
	defer shutdownTimer.Stop()

	if err := server.Stop(); err != nil {
		logger.Error("api server shutdown failed", "error", err)
	}
	if sweeper != nil {
		if err := sweeper.Stop(); err != nil {
			logger.Error("sweeper shutdown failed", "error", err)
		}
	}
	stopNotifier()

	fmt.Println("\nDaemon stopped")
	return nil
}
