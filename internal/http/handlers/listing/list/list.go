// Package list реализует HTTP-обработчик каталога объявлений.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
)

// Service описывает чтение каталога.
type Service interface {
	List(ctx context.Context) ([]models.ListingView, error)
}

// Handler обрабатывает GET /api/servicos.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог услуг
// @Description Все объявления с исполнителем и медиафайлами, по возрастанию ID.
// @Tags Listings
// @Produce json
// @Success 200 {array} models.ListingView
// @Failure 500 {object} response.ErrorResponse
// @Router /api/servicos [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.listing.list"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	listings, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list listings", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}
	if listings == nil {
		listings = []models.ListingView{}
	}

	log.Debug("listings fetched", slog.Int("count", len(listings)))
	render.JSON(w, r, listings)
}
