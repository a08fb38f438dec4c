// Package login реализует HTTP-обработчик входа пользователя.
//
// При успешной проверке пароля возвращает токен доступа и краткие
// сведения о пользователе.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/services/auth"
)

// MsgInvalidCredentials ответ на неверное имя или пароль.
const MsgInvalidCredentials = "Credenciais inválidas!"

// Request учётные данные пользователя.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserInfo сведения о пользователе в ответе на вход.
type UserInfo struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"nome_completo"`
	IsProvider bool   `json:"is_prestador"`
}

// Response тело успешного ответа.
type Response struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, username, password string) (string, *models.User, error)
}

// Handler обрабатывает HTTP-запросы на вход.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет имя и пароль, возвращает токен доступа на 24 часа.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse
// @Router /api/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	token, user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		log.Info("invalid credentials", slog.String("username", req.Username))
		response.WriteError(w, r, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("login success", slog.String("username", req.Username))
	render.JSON(w, r, Response{
		Token: token,
		User: UserInfo{
			ID:         user.ID,
			Username:   user.Username,
			Email:      user.Email,
			FullName:   user.FullName,
			IsProvider: user.IsProvider,
		},
	})
}
