// Package marketplace собирает HTTP-маршруты и зависимости сервиса.
package marketplace

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/service-marketplace/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/service-marketplace/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/service-marketplace/internal/http/handlers/home"
	"github.com/magabrotheeeer/service-marketplace/internal/http/handlers/listing/create"
	"github.com/magabrotheeeer/service-marketplace/internal/http/handlers/listing/list"
	"github.com/magabrotheeeer/service-marketplace/internal/http/handlers/media/download"
	"github.com/magabrotheeeer/service-marketplace/internal/http/handlers/media/upload"
	profileget "github.com/magabrotheeeer/service-marketplace/internal/http/handlers/profile/get"
	profileupdate "github.com/magabrotheeeer/service-marketplace/internal/http/handlers/profile/update"
	"github.com/magabrotheeeer/service-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/services/auth"
)

// AuthService регистрация, вход и проверка токенов.
type AuthService interface {
	register.Service
	login.Service
	Verify(ctx context.Context, token string) (*models.User, error)
}

// ProfileService чтение и обновление профиля.
type ProfileService interface {
	profileget.Service
	profileupdate.Service
}

// CatalogService каталог объявлений.
type CatalogService interface {
	list.Service
	create.Service
}

// MediaService загрузка и чтение файлов.
type MediaService interface {
	upload.Service
	download.Service
}

var _ AuthService = (*auth.AuthService)(nil)

// Deps зависимости маршрутов.
type Deps struct {
	Log            *slog.Logger
	Auth           AuthService
	Profile        ProfileService
	Catalog        CatalogService
	Media          MediaService
	Limiter        *middlewarectx.IPLimiter
	Registry       *prometheus.Registry
	MaxUploadBytes int64
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	metrics := middlewarectx.NewMetrics(d.Registry)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middlewarectx.RequestLogger(d.Log),
		middleware.Recoverer,
		metrics.Middleware,
	)

	r.Get("/", home.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Limiter, d.Log))
			r.Post("/register", register.New(d.Log, d.Auth).ServeHTTP)
			r.Post("/login", login.New(d.Log, d.Auth).ServeHTTP)
		})

		r.Get("/servicos", list.New(d.Log, d.Catalog).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Auth, d.Log))
			r.Get("/profile", profileget.New(d.Log, d.Profile).ServeHTTP)
			r.Put("/profile", profileupdate.New(d.Log, d.Profile).ServeHTTP)
			r.Post("/servicos", create.New(d.Log, d.Catalog).ServeHTTP)
			r.With(middlewarectx.RequestSize(d.MaxUploadBytes)).
				Post("/upload", upload.New(d.Log, d.Media, d.MaxUploadBytes).ServeHTTP)
		})
	})

	r.Get("/uploads/{filename}", download.New(d.Log, d.Media).ServeHTTP)

	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
