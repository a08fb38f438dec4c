package repository

import (
	"context"
	"database/sql/driver"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

func TestStorage_CreateMedia(t *testing.T) {
	listingID := int64(4)
	file := models.MediaFile{
		Filename:         "20240101_000000_deadbeef_a.png",
		OriginalFilename: "a.png",
		Kind:             models.MediaImage,
		ContentType:      "image/png",
		SizeBytes:        120,
		UserID:           1,
		ListingID:        &listingID,
	}

	tests := []struct {
		name    string
		file    models.MediaFile
		args    []driver.Value
		dbErr   error
		wantErr error
	}{
		{
			name: "attached to listing",
			file: file,
			args: []driver.Value{file.Filename, "a.png", "image", "image/png", int64(120), int64(1), int64(4)},
		},
		{
			name: "standalone",
			file: func() models.MediaFile { f := file; f.ListingID = nil; return f }(),
			args: []driver.Value{file.Filename, "a.png", "image", "image/png", int64(120), int64(1), nil},
		},
		{
			name:    "listing vanished",
			file:    file,
			dbErr:   &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "media_files_listing_id_fkey"},
			wantErr: storage.ErrListingNotFound,
		},
		{
			name:    "owner vanished",
			file:    file,
			dbErr:   &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "media_files_user_id_fkey"},
			wantErr: storage.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newStorageWithMock(t)
			exp := mock.ExpectQuery(`INSERT INTO media_files`)
			if tt.args != nil {
				exp.WithArgs(tt.args...)
			}
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(9)))
			}

			id, err := s.CreateMedia(context.Background(), tt.file)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(9), id)
		})
	}
}
