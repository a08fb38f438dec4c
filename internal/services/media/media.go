// Package media принимает загрузки файлов и отдаёт их содержимое.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/magabrotheeeer/service-marketplace/internal/lib/filename"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
	"github.com/magabrotheeeer/service-marketplace/internal/storage/files"
)

var (
	ErrNoFile         = errors.New("no file provided")
	ErrInvalidListing = errors.New("listing does not exist")
)

// Repository хранилище метаданных медиафайлов.
type Repository interface {
	ListingExists(ctx context.Context, id int64) (bool, error)
	CreateMedia(ctx context.Context, m models.MediaFile) (int64, error)
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// UploadInput загружаемый файл. Body должен поддерживать Seek,
// потому что начало файла читается для определения типа.
type UploadInput struct {
	OwnerID   int64
	Filename  string
	Body      io.ReadSeeker
	Size      int64
	ListingID *int64
}

// MediaUploaded полезная нагрузка события media.uploaded.
type MediaUploaded struct {
	ID        int64            `json:"id"`
	Filename  string           `json:"filename"`
	Kind      models.MediaKind `json:"type"`
	OwnerID   int64            `json:"user_id"`
	ListingID *int64           `json:"servico_id,omitempty"`
}

// Service операции с медиафайлами.
type Service struct {
	repo   Repository
	store  files.Store
	events EventPublisher
	log    *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, store files.Store, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		events: events,
		log:    log,
		now:    time.Now,
		newID:  filename.RandomID,
	}
}

// Upload сохраняет содержимое в хранилище, затем запись в базе.
// Если запись не удалась, содержимое удаляется.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.MediaFile, error) {
	const op = "media.Upload"

	if in.Body == nil || in.Filename == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoFile)
	}
	if in.ListingID != nil {
		ok, err := s.repo.ListingExists(ctx, *in.ListingID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidListing)
		}
	}

	mt, err := mimetype.DetectReader(in.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err = in.Body.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	name := filename.StorageName(s.now(), s.newID(), in.Filename)
	m := models.MediaFile{
		Filename:         name,
		OriginalFilename: in.Filename,
		Kind:             filename.Kind(name),
		ContentType:      mt.String(),
		SizeBytes:        in.Size,
		UserID:           in.OwnerID,
		ListingID:        in.ListingID,
	}

	if err = s.store.Save(ctx, name, in.Body, in.Size, m.ContentType); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.ID, err = s.repo.CreateMedia(ctx, m)
	if err != nil {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), name); delErr != nil {
			s.log.Error("failed to remove orphaned file",
				sl.Op(op), slog.String("filename", name), sl.Err(delErr))
		}
		if errors.Is(err, storage.ErrListingNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidListing)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	event := MediaUploaded{ID: m.ID, Filename: name, Kind: m.Kind, OwnerID: in.OwnerID, ListingID: in.ListingID}
	if err := s.events.Publish(ctx, rabbitmq.MediaUploaded, event); err != nil {
		s.log.Warn("failed to publish event", sl.Op(op), sl.Err(err))
	}
	return &m, nil
}

// Open открывает сохранённый файл по имени в хранилище.
func (s *Service) Open(ctx context.Context, name string) (*files.Object, error) {
	const op = "media.Open"
	obj, err := s.store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return obj, nil
}
