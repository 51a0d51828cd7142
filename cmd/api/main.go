package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental_backend/internal/adapters"
	"rental_backend/internal/catalog"
	"rental_backend/internal/email"
	"rental_backend/internal/events"
	apphttp "rental_backend/internal/http"
	"rental_backend/internal/http/router"
	"rental_backend/internal/notification"
	"rental_backend/internal/numbering"
	"rental_backend/internal/pagos"
	"rental_backend/internal/scheduler"
	"rental_backend/internal/solicitudes"
	solrepo "rental_backend/internal/solicitudes/repository"
	"rental_backend/internal/tarjetas"
	tarjetaservice "rental_backend/internal/tarjetas/service"
	"rental_backend/platform/config"
	"rental_backend/platform/db"
	"rental_backend/platform/logger"
	"rental_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	dispatcher, closeDispatcher := initDispatcher(cfg, log)
	if closeDispatcher != nil {
		defer closeDispatcher()
	}

	// Shared validator instance for dependency injection
	val := validator.New()
	codes := numbering.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(dispatcher, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule := catalog.NewModule(pool, val)
	catalogReader := adapters.NewCatalogProductReader(catalogModule.Repository())
	solicitudesModule := solicitudes.NewModule(pool, catalogReader, codes, eventBus, val, log)

	tarjetasModule := tarjetas.NewModule(pool, tarjetaservice.NewSimulatedTokenizer(), cfg, val, log)

	// Payment ledger reads request ownership and card ownership from the other modules
	ownerReader := adapters.NewSolicitudOwnerReader(solrepo.New(pool))
	pagosModule := pagos.NewModule(pool, ownerReader, tarjetasModule.Service(), codes, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			solicitudesModule,
			tarjetasModule,
			pagosModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	// Let in-flight notification handlers finish before the pool closes
	eventBus.Wait()
	log.Info("server stopped")
}

// initDispatcher queues notification emails through asynq when Redis is
// configured, and sends them inline otherwise.
func initDispatcher(cfg *config.Config, log *logger.Logger) (notification.Dispatcher, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; notification emails are sent inline")
		return notification.NewDirectDispatcher(email.NewSender(cfg)), nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client; notification emails are sent inline", "error", err)
		return notification.NewDirectDispatcher(email.NewSender(cfg)), nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
