package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Togather-Foundation/eventhub/internal/api"
	"github.com/Togather-Foundation/eventhub/internal/api/handlers"
	"github.com/Togather-Foundation/eventhub/internal/config"
	"github.com/Togather-Foundation/eventhub/internal/domain/events"
	"github.com/Togather-Foundation/eventhub/internal/email"
	"github.com/Togather-Foundation/eventhub/internal/jobs"
	"github.com/Togather-Foundation/eventhub/internal/metrics"
	"github.com/Togather-Foundation/eventhub/internal/storage/postgres"
	"github.com/Togather-Foundation/eventhub/internal/telemetry"
)

var (
	serverHost string
	serverPort int
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the EventHub HTTP server",
		Long: `Start the EventHub HTTP server and the notification workers.

The server will:
- Load configuration from environment variables (or --config file if provided)
- Apply database migrations when DATABASE_MIGRATE_ON_START is set
- Serve the Mason API under /api/
- Deliver event change emails through River jobs
- Handle graceful shutdown on SIGINT/SIGTERM

Examples:
  # Start with default configuration (from env vars)
  eventhub serve

  # Start on a specific host and port
  eventhub serve --host 127.0.0.1 --port 9090

  # Start with custom config file
  eventhub serve --config /etc/eventhub/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&serverHost, "host", "", "server host address (default: 0.0.0.0)")
	cmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: 8080)")
	return cmd
}

func runServer(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Str("version", Version).Str("environment", cfg.Environment).Msg("starting eventhub")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.Init(Version, GitCommit, BuildDate)

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing, Version)
	if err != nil {
		return fmt.Errorf("tracing init failed: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Error().Err(err).Msg("tracing shutdown error")
		}
	}()

	if cfg.Database.MigrateOnStart {
		if err := postgres.MigrateUp(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info().Msg("database migrations applied")
	}

	poolCtx, poolCancel := context.WithTimeout(ctx, 10*time.Second)
	pool, err := postgres.NewPool(poolCtx, cfg.Database.URL, cfg.Database.MaxConnections)
	poolCancel()
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init failed: %w", err)
	}

	dbCollector := metrics.NewDBCollector(pool)
	defer dbCollector.Stop()

	var (
		notifier    events.Notifier
		riverClient *river.Client[pgx.Tx]
	)
	if cfg.Jobs.Enabled {
		if cfg.Database.MigrateOnStart {
			if err := jobs.Migrate(ctx, pool); err != nil {
				return err
			}
		}
		mailer, err := email.NewService(cfg.Email, logger)
		if err != nil {
			return fmt.Errorf("email init failed: %w", err)
		}
		riverClient, err = jobs.NewClient(pool, jobs.NewWorkers(mailer, logger), logger,
			[]rivertype.Hook{metrics.NewRiverMetricsHook()}, cfg.Jobs.NotificationWorker)
		if err != nil {
			return fmt.Errorf("river client init failed: %w", err)
		}
		notifier = jobs.NewNotifier(riverClient, cfg.Server.BaseURL, logger)
	} else {
		logger.Warn().Msg("jobs disabled, followers will not be notified of event changes")
	}

	router := api.NewRouter(api.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Repo:     repo,
		Notifier: notifier,
		Health:   handlers.NewHealthChecker(pool, cfg.Jobs.Enabled, Version, GitCommit),
		Build:    buildInfo(),
	})
	defer router.Close()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		dbCollector.Start(groupCtx, 15*time.Second)
		return nil
	})

	if riverClient != nil {
		if err := riverClient.Start(groupCtx); err != nil {
			return fmt.Errorf("river workers failed to start: %w", err)
		}
		logger.Info().Int("workers", cfg.Jobs.NotificationWorker).Msg("notification workers started")
	}

	group.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		return shutdown(server, riverClient, logger)
	})

	if err := group.Wait(); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func shutdown(server *http.Server, riverClient *river.Client[pgx.Tx], logger zerolog.Logger) error {
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if riverClient != nil {
		if err := riverClient.Stop(ctx); err != nil {
			errs = append(errs, fmt.Errorf("river shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
