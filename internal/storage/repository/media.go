package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

// CreateMedia сохраняет метаданные загруженного файла и возвращает ID записи.
func (s *Storage) CreateMedia(ctx context.Context, m models.MediaFile) (int64, error) {
	const op = "storage.CreateMedia"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO media_files (filename, original_filename, file_type, content_type,
			      size_bytes, user_id, listing_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query,
		m.Filename, m.OriginalFilename, string(m.Kind), m.ContentType,
		m.SizeBytes, m.UserID, m.ListingID).Scan(&id)
	if err != nil {
		if constraint, ok := isForeignKeyViolation(err); ok {
			if constraint == "media_files_listing_id_fkey" {
				return 0, fmt.Errorf("%s: %w", op, storage.ErrListingNotFound)
			}
			return 0, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
