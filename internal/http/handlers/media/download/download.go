// Package download отдаёт загруженные файлы по имени в хранилище.
package download

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/storage/files"
)

// MsgNotFound ответ на отсутствующий файл.
const MsgNotFound = "Arquivo não encontrado!"

// Service описывает чтение файла.
type Service interface {
	Open(ctx context.Context, name string) (*files.Object, error)
}

// Handler обрабатывает GET /uploads/{filename}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Скачивание медиафайла
// @Tags Media
// @Produce octet-stream
// @Param filename path string true "Имя файла в хранилище"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorResponse
// @Router /uploads/{filename} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.media.download"

	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	name := chi.URLParam(r, "filename")
	obj, err := h.service.Open(r.Context(), name)
	if errors.Is(err, files.ErrNotFound) {
		log.Info("file not found", slog.String("filename", name))
		response.WriteError(w, r, http.StatusNotFound, MsgNotFound)
		return
	}
	if err != nil {
		log.Error("failed to open file", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, obj.Body); err != nil {
		log.Warn("failed to stream file", sl.Err(err))
	}
}
