// Package create реализует HTTP-обработчик создания объявления.
package create

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
	"github.com/magabrotheeeer/service-marketplace/internal/services/catalog"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

// Сообщения ответа.
const (
	MsgCreated       = "Serviço criado com sucesso!"
	MsgTitleRequired = "Título é obrigatório!"
)

// Request поля нового объявления.
type Request struct {
	Title       string   `json:"titulo" validate:"max=200"`
	Description string   `json:"descricao,omitempty"`
	Category    string   `json:"categoria,omitempty" validate:"max=100"`
	Price       *float64 `json:"preco,omitempty" validate:"omitempty,gte=0"`
}

// Response тело успешного ответа.
type Response struct {
	Message string `json:"message" example:"Serviço criado com sucesso!"`
	ID      int64  `json:"id" example:"1"`
}

// Service описывает создание объявления.
type Service interface {
	Create(ctx context.Context, ownerID int64, in catalog.CreateInput) (int64, error)
}

// Handler обрабатывает POST /api/servicos.
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
// @Summary Создание объявления
// @Tags Listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Объявление"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/servicos [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.create"

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

	in := catalog.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Price != nil {
		in.Price = *req.Price
	}

	id, err := h.service.Create(r.Context(), current.ID, in)
	switch {
	case errors.Is(err, catalog.ErrTitleRequired):
		response.WriteError(w, r, http.StatusBadRequest, MsgTitleRequired)
		return
	case errors.Is(err, catalog.ErrNegativePrice):
		response.WriteError(w, r, http.StatusBadRequest, response.MsgInvalidBody)
		return
	case errors.Is(err, storage.ErrUserNotFound):
		response.WriteError(w, r, http.StatusUnauthorized, middlewarectx.MsgTokenUserNotFound)
		return
	case err != nil:
		log.Error("failed to create listing", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("listing created", slog.Int64("id", id), slog.Int64("owner_id", current.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Message: MsgCreated, ID: id})
}
