package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

// CreateListing сохраняет объявление и возвращает его ID.
func (s *Storage) CreateListing(ctx context.Context, l models.Listing) (int64, error) {
	const op = "storage.CreateListing"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO listings (title, description, category, price, user_id)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query,
		l.Title, l.Description, l.Category, l.Price, l.UserID).Scan(&id)
	if err != nil {
		if _, ok := isForeignKeyViolation(err); ok {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// ListListings возвращает все объявления вместе с данными владельца, по возрастанию ID.
// Поле Media остаётся пустым, медиа подгружаются через ListListingMedia.
func (s *Storage) ListListings(ctx context.Context) ([]models.ListingView, error) {
	const op = "storage.ListListings"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT l.id, l.title, l.description, l.category, l.price, l.created_at,
			      u.id, u.full_name, u.phone, u.whatsapp, u.city
			  FROM listings l
			  JOIN users u ON u.id = l.user_id
			  ORDER BY l.id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]models.ListingView, 0)
	for rows.Next() {
		var v models.ListingView
		if err = rows.Scan(&v.ID, &v.Title, &v.Description, &v.Category, &v.Price, &v.CreatedAt,
			&v.Owner.ID, &v.Owner.Name, &v.Owner.Phone, &v.Owner.WhatsApp, &v.Owner.City,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListListingMedia возвращает все медиафайлы, привязанные к объявлениям, по возрастанию ID.
func (s *Storage) ListListingMedia(ctx context.Context) ([]models.MediaFile, error) {
	const op = "storage.ListListingMedia"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, listing_id, filename, file_type
			  FROM media_files
			  WHERE listing_id IS NOT NULL
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.MediaFile
	for rows.Next() {
		var (
			m         models.MediaFile
			listingID int64
			kind      string
		)
		if err = rows.Scan(&m.ID, &listingID, &m.Filename, &kind); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		m.ListingID = &listingID
		m.Kind = models.MediaKind(kind)
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListingExists сообщает, существует ли объявление с данным ID.
func (s *Storage) ListingExists(ctx context.Context, id int64) (bool, error) {
	const op = "storage.ListingExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM listings WHERE id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}
