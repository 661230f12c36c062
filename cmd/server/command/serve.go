package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/logger"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/repository/memstore"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API (the default action)",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logger.Init(serviceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	deps := router.Deps{
		Cfg:       cfg,
		Store:     store,
		Redis:     config.NewRedisClient(),
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
	}
	if deps.Redis != nil {
		defer deps.Redis.Close()
	}
	if cfg.RabbitMQURL != "" {
		pub := queue.NewPublisher(cfg.RabbitMQURL, cfg.PublishTimeout)
		defer pub.Close()
		outbox := queue.NewOutbox(pub, cfg.EventBuffer)
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := outbox.Close(dctx); err != nil {
				logger.Warn().Err(err).Msg("booking events left undelivered")
			}
		}()
		deps.Events = outbox
	} else {
		logger.Warn().Msg("RABBITMQ_URL not set, booking events are not published")
	}

	app := router.New(deps)

	if cfg.Sweep.Enabled {
		sweep := service.NewCompletionSweep(app.Reservations)
		if err := sweep.Start(ctx, cfg.Sweep.Schedule); err != nil {
			return fmt.Errorf("completion sweep schedule %q: %w", cfg.Sweep.Schedule, err)
		}
		defer sweep.Stop()
	}

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Str("store", cfg.Store).Msg("listening")
		errc <- app.Echo.Start(addr)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Echo.Shutdown(sctx)
}

// openStore returns the configured storage backend.  The memory backend
// is preloaded with the demo catalog.
func openStore(ctx context.Context, cfg config.Config) (service.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		m := memstore.New()
		m.Load(database.DefaultSeed())
		return m, func() {}, nil
	}
	db, err := database.Open(dbOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return repository.NewStore(db), func() { db.Close() }, nil
}

func dbOptions(cfg config.Config) database.Options {
	return database.Options{
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
	}
}
