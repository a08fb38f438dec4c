// Package get реализует HTTP-обработчик чтения профиля текущего пользователя.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/service-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

// Profile полный профиль пользователя без хэша пароля.
type Profile struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"nome_completo"`
	Phone      string `json:"telefone"`
	WhatsApp   string `json:"whatsapp"`
	Address    string `json:"endereco"`
	City       string `json:"cidade"`
	State      string `json:"estado"`
	PostalCode string `json:"cep"`
	Bio        string `json:"descricao"`
	Avatar     string `json:"foto_perfil"`
	IsProvider bool   `json:"is_prestador"`
}

// FromUser переводит пользователя в представление профиля.
func FromUser(u *models.User) Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		WhatsApp:   u.WhatsApp,
		Address:    u.Address,
		City:       u.City,
		State:      u.State,
		PostalCode: u.PostalCode,
		Bio:        u.Bio,
		Avatar:     u.Avatar,
		IsProvider: u.IsProvider,
	}
}

// Service описывает чтение профиля.
type Service interface {
	Get(ctx context.Context, id int64) (*models.User, error)
}

// Handler обрабатывает GET /api/profile.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Profile
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.get"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	current, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user missing in context")
		response.WriteError(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenRequired)
		return
	}

	user, err := h.service.Get(r.Context(), current.ID)
	if errors.Is(err, storage.ErrUserNotFound) {
		log.Info("user not found", slog.Int64("id", current.ID))
		response.WriteError(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenUserNotFound)
		return
	}
	if err != nil {
		log.Error("failed to get profile", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	render.JSON(w, r, FromUser(user))
}
