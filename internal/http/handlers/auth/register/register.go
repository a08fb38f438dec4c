// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/services/auth"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

// Сообщения ответа.
const (
	MsgCreated       = "Usuário criado com sucesso!"
	MsgMissingFields = "Username, email e password são obrigatórios!"
	MsgUsernameTaken = "Usuário já existe!"
	MsgEmailTaken    = "Email já cadastrado!"
	MsgPasswordLong  = "Senha muito longa!"
)

// Request входные данные регистрации.
type Request struct {
	Username   string `json:"username" validate:"required,max=80"`
	Email      string `json:"email" validate:"required,email,max=120"`
	Password   string `json:"password" validate:"required,max=72"`
	FullName   string `json:"nome_completo,omitempty" validate:"max=200"`
	Phone      string `json:"telefone,omitempty" validate:"max=20"`
	WhatsApp   string `json:"whatsapp,omitempty" validate:"max=20"`
	IsProvider bool   `json:"is_prestador,omitempty"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (int64, error)
}

// Handler обрабатывает регистрацию пользователей.
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
// @Summary Регистрация пользователя
// @Description Создаёт клиента или исполнителя. Имя пользователя и почта уникальны.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные пользователя"
// @Success 201 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или дубликат"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse
// @Router /api/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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

	if req.Username == "" || req.Email == "" || req.Password == "" {
		log.Info("required fields are missing")
		response.WriteError(w, r, http.StatusBadRequest, MsgMissingFields)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err))
		return
	}

	id, err := h.service.Register(r.Context(), auth.RegisterInput{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		FullName:   req.FullName,
		Phone:      req.Phone,
		WhatsApp:   req.WhatsApp,
		IsProvider: req.IsProvider,
	})
	switch {
	case errors.Is(err, storage.ErrUsernameTaken):
		log.Info("username taken", slog.String("username", req.Username))
		response.WriteError(w, r, http.StatusBadRequest, MsgUsernameTaken)
		return
	case errors.Is(err, storage.ErrEmailTaken):
		log.Info("email taken")
		response.WriteError(w, r, http.StatusBadRequest, MsgEmailTaken)
		return
	case errors.Is(err, password.ErrTooLong):
		log.Info("password too long")
		response.WriteError(w, r, http.StatusBadRequest, MsgPasswordLong)
		return
	case err != nil:
		log.Error("failed to register user", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("user registered", slog.Int64("id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Message(MsgCreated))
}
