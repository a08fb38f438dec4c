package marketplace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/service-marketplace/internal/config"
	"github.com/magabrotheeeer/service-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/migrations"
	"github.com/magabrotheeeer/service-marketplace/internal/services/auth"
	"github.com/magabrotheeeer/service-marketplace/internal/services/catalog"
	"github.com/magabrotheeeer/service-marketplace/internal/services/media"
	"github.com/magabrotheeeer/service-marketplace/internal/services/profile"
	"github.com/magabrotheeeer/service-marketplace/internal/storage/files"
	"github.com/magabrotheeeer/service-marketplace/internal/storage/repository"
)

const (
	shutdownTimeout = 15 * time.Second
	brokerRetries   = 5
	brokerDelay     = 2 * time.Second
)

// App HTTP-сервер маркетплейса со всеми зависимостями.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	db      *repository.Storage
	closers []io.Closer
}

// New подключается к базе, применяет миграции и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "marketplace.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app := &App{logger: logger, db: db}

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	store, err := files.New(ctx, cfg.Media)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	publisher, err := app.newPublisher(cfg.Broker)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Log:            logger,
		Auth:           auth.NewAuthService(db, jwtMaker, publisher, logger),
		Profile:        profile.NewService(db),
		Catalog:        catalog.NewService(db, publisher, logger),
		Media:          media.NewService(db, store, publisher, logger),
		Limiter:        middlewarectx.NewIPLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		Registry:       registry,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) newPublisher(cfg config.Broker) (auth.EventPublisher, error) {
	if cfg.URL == "" {
		a.logger.Info("broker url is empty, domain events are disabled")
		return rabbitmq.NoopPublisher{}, nil
	}
	conn, err := rabbitmq.Connect(cfg.URL, brokerRetries, brokerDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupExchange(conn, cfg.Exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	a.closers = append(a.closers, ch, conn)
	return rabbitmq.NewPublisher(ch, cfg.Exchange), nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("failed to close resource", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
