// Package middlewarectx содержит HTTP middleware сервиса: проверку токена,
// ограничение частоты запросов, метрики и журналирование запросов.
//
// JWTMiddleware проверяет токен из заголовка Authorization и кладёт
// владельца токена в контекст запроса. При ошибке проверки отвечает
// 401 Unauthorized с сообщением о причине.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User ключ для текущего пользователя в контексте.
const User Key = "user"

// Сообщения об ошибках проверки токена.
const (
	MsgTokenRequired     = "Token é necessário!"
	MsgTokenInvalid      = "Token inválido!"
	MsgTokenExpired      = "Token expirado!"
	MsgTokenUserNotFound = "Usuário do token não encontrado!"
)

// ErrTokenMissing запрос пришёл без токена.
var ErrTokenMissing = errors.New("authorization token missing")

// Verifier проверяет токен и возвращает его владельца.
type Verifier interface {
	Verify(ctx context.Context, token string) (*models.User, error)
}

// JWTMiddleware возвращает middleware, который проверяет токен в заголовке
// Authorization. Префикс "Bearer " необязателен.
func JWTMiddleware(verifier Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				sl.Op(op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			tokenStr := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
			if tokenStr == "" {
				log.Info("token rejected", sl.Err(ErrTokenMissing))
				response.WriteError(w, r, http.StatusUnauthorized, MsgTokenRequired)
				return
			}

			user, err := verifier.Verify(r.Context(), tokenStr)
			if err != nil {
				msg, ok := tokenErrorMessage(err)
				if !ok {
					log.Error("failed to verify token", sl.Err(err))
					response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
					return
				}
				log.Info("token rejected", sl.Err(err))
				response.WriteError(w, r, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), User, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return MsgTokenExpired, true
	case errors.Is(err, auth.ErrTokenUserNotFound):
		return MsgTokenUserNotFound, true
	case errors.Is(err, jwt.ErrTokenMalformed):
		return MsgTokenInvalid, true
	default:
		return "", false
	}
}

// UserFromContext возвращает пользователя, положенного JWTMiddleware.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}
