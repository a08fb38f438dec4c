// Package upload реализует HTTP-обработчик загрузки медиафайлов.
//
// Ожидается multipart/form-data с частью "file" и необязательным полем
// "servico_id", привязывающим файл к объявлению.
package upload

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/service-marketplace/internal/http/middlewarectx"
	"github.com/magabrotheeeer/service-marketplace/internal/http/response"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/services/media"
)

// Сообщения ответа.
const (
	MsgUploaded       = "Arquivo enviado com sucesso!"
	MsgNoFile         = "Nenhum arquivo enviado!"
	MsgNoFileSelected = "Nenhum arquivo selecionado!"
	MsgInvalidListing = "Serviço inválido!"
	MsgFileTooLarge   = "Arquivo muito grande!"
)

// multipartMemoryMax часть формы сверх этого объёма уходит во временный файл.
const multipartMemoryMax = 8 << 20

// Response тело успешного ответа.
type Response struct {
	Message  string `json:"message" example:"Arquivo enviado com sucesso!"`
	Filename string `json:"filename" example:"20240309_140507_1a2b3c4d_foto.png"`
	URL      string `json:"url" example:"/uploads/20240309_140507_1a2b3c4d_foto.png"`
}

// Service описывает загрузку файла.
type Service interface {
	Upload(ctx context.Context, in media.UploadInput) (*models.MediaFile, error)
}

// Handler обрабатывает POST /api/upload.
type Handler struct {
	log      *slog.Logger
	service  Service
	maxBytes int64
}

// New создает новый экземпляр Handler. Запросы длиннее maxBytes отклоняются с 413.
func New(log *slog.Logger, service Service, maxBytes int64) *Handler {
	return &Handler{log: log, service: service, maxBytes: maxBytes}
}

// ServeHTTP godoc
// @Summary Загрузка медиафайла
// @Description Изображения (png, jpg, jpeg, gif) и видео. Файл доступен по /uploads/{filename}.
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Файл"
// @Param servico_id formData int false "ID объявления"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/upload [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.media.upload"

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

	if h.maxBytes > 0 && r.ContentLength > h.maxBytes {
		log.Info("request body too large", slog.Int64("content_length", r.ContentLength))
		response.WriteError(w, r, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
		return
	}

	if err := r.ParseMultipartForm(multipartMemoryMax); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Info("request body too large", sl.Err(err))
			response.WriteError(w, r, http.StatusRequestEntityTooLarge, MsgFileTooLarge)
			return
		}
		log.Info("failed to parse multipart form", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, MsgNoFile)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("failed to remove multipart temp files", sl.Err(err))
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		// Часть без имени файла multipart отдаёт как обычное поле.
		if _, sent := r.MultipartForm.Value["file"]; sent {
			response.WriteError(w, r, http.StatusBadRequest, MsgNoFileSelected)
			return
		}
		log.Info("file part missing", sl.Err(err))
		response.WriteError(w, r, http.StatusBadRequest, MsgNoFile)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		response.WriteError(w, r, http.StatusBadRequest, MsgNoFileSelected)
		return
	}

	var listingID *int64
	if raw := r.FormValue("servico_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			log.Info("invalid servico_id", slog.String("servico_id", raw))
			response.WriteError(w, r, http.StatusBadRequest, MsgInvalidListing)
			return
		}
		listingID = &id
	}

	saved, err := h.service.Upload(r.Context(), media.UploadInput{
		OwnerID:   current.ID,
		Filename:  header.Filename,
		Body:      file,
		Size:      header.Size,
		ListingID: listingID,
	})
	switch {
	case errors.Is(err, media.ErrNoFile):
		response.WriteError(w, r, http.StatusBadRequest, MsgNoFileSelected)
		return
	case errors.Is(err, media.ErrInvalidListing):
		response.WriteError(w, r, http.StatusBadRequest, MsgInvalidListing)
		return
	case err != nil:
		log.Error("failed to upload file", sl.Err(err))
		response.WriteError(w, r, http.StatusInternalServerError, response.MsgInternal)
		return
	}

	log.Info("file uploaded", slog.String("filename", saved.Filename), slog.Int64("size", saved.SizeBytes))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Message:  MsgUploaded,
		Filename: saved.Filename,
		URL:      "/uploads/" + saved.Filename,
	})
}
