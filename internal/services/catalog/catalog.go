// Package catalog ведёт каталог объявлений об услугах.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/service-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrNegativePrice = errors.New("price must not be negative")
)

// Repository хранилище объявлений.
type Repository interface {
	CreateListing(ctx context.Context, l models.Listing) (int64, error)
	ListListings(ctx context.Context) ([]models.ListingView, error)
	ListListingMedia(ctx context.Context) ([]models.MediaFile, error)
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// CreateInput поля нового объявления.
type CreateInput struct {
	Title       string
	Description string
	Category    string
	Price       float64
}

// ListingCreated полезная нагрузка события listing.created.
type ListingCreated struct {
	ID       int64   `json:"id"`
	OwnerID  int64   `json:"prestador_id"`
	Title    string  `json:"titulo"`
	Category string  `json:"categoria"`
	Price    float64 `json:"preco"`
}

// Service операции каталога.
type Service struct {
	repo   Repository
	events EventPublisher
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, events EventPublisher, log *slog.Logger) *Service {
	return &Service{repo: repo, events: events, log: log}
}

// List возвращает все объявления по возрастанию ID с владельцем и медиафайлами.
func (s *Service) List(ctx context.Context) ([]models.ListingView, error) {
	const op = "catalog.List"

	listings, err := s.repo.ListListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	media, err := s.repo.ListListingMedia(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	byListing := make(map[int64][]models.MediaDescriptor, len(listings))
	for _, m := range media {
		if m.ListingID == nil {
			continue
		}
		byListing[*m.ListingID] = append(byListing[*m.ListingID], models.MediaDescriptor{
			Filename: m.Filename,
			Kind:     m.Kind,
		})
	}

	for i := range listings {
		listings[i].Media = byListing[listings[i].ID]
		if listings[i].Media == nil {
			listings[i].Media = []models.MediaDescriptor{}
		}
	}
	return listings, nil
}

// Create сохраняет объявление владельца ownerID и возвращает его ID.
func (s *Service) Create(ctx context.Context, ownerID int64, in CreateInput) (int64, error) {
	const op = "catalog.Create"

	if strings.TrimSpace(in.Title) == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}
	if in.Price < 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrNegativePrice)
	}

	id, err := s.repo.CreateListing(ctx, models.Listing{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		UserID:      ownerID,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	event := ListingCreated{ID: id, OwnerID: ownerID, Title: in.Title, Category: in.Category, Price: in.Price}
	if err := s.events.Publish(ctx, rabbitmq.ListingCreated, event); err != nil {
		s.log.Warn("failed to publish event", sl.Op(op), sl.Err(err))
	}
	return id, nil
}
