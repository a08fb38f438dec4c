// Package update реализует HTTP-обработчик частичного обновления профиля.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/service-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

// MsgUpdated ответ на успешное обновление.
const MsgUpdated = "Perfil atualizado com sucesso!"

// Request изменяемые поля профиля. Отсутствующее поле не меняется.
type Request struct {
	FullName   *string `json:"nome_completo,omitempty" validate:"omitempty,max=200"`
	Phone      *string `json:"telefone,omitempty" validate:"omitempty,max=20"`
	WhatsApp   *string `json:"whatsapp,omitempty" validate:"omitempty,max=20"`
	Address    *string `json:"endereco,omitempty"`
	City       *string `json:"cidade,omitempty" validate:"omitempty,max=100"`
	State      *string `json:"estado,omitempty" validate:"omitempty,max=50"`
	PostalCode *string `json:"cep,omitempty" validate:"omitempty,max=10"`
	Bio        *string `json:"descricao,omitempty"`
	Avatar     *string `json:"foto_perfil,omitempty" validate:"omitempty,max=200"`
}

func (r Request) toUpdate() models.ProfileUpdate {
	return models.ProfileUpdate{
		FullName:   r.FullName,
		Phone:      r.Phone,
		WhatsApp:   r.WhatsApp,
		Address:    r.Address,
		City:       r.City,
		State:      r.State,
		PostalCode: r.PostalCode,
		Bio:        r.Bio,
		Avatar:     r.Avatar,
	}
}

// Service описывает обновление профиля.
type Service interface {
	Update(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error)
}

// Handler обрабатывает PUT /api/profile.
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
// @Summary Обновление профиля
// @Description Перезаписывает только переданные поля.
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Поля профиля"
// @Success 200 {object} response.MessageResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.update"

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

	_, err := h.service.Update(r.Context(), current.ID, req.toUpdate())
	if errors.Is(err, storage.ErrUserNotFound) {
		log.Info("user not found", slog.Int64("id", current.ID))
		response.WriteError(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenUserNotFound)
		return
	}
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("profile updated", slog.Int64("id", current.ID))
	render.JSON(w, r, response.Message(MsgUpdated))
}
