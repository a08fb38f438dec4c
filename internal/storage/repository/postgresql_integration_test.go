package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

func TestIntegration_Users(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()

	require.NoError(t, CheckDatabaseReady(ctx, s))

	id, err := s.CreateUser(ctx, models.User{
		Username:     "ana",
		Email:        "a@x.com",
		PasswordHash: "hash",
		FullName:     "Ana",
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = s.CreateUser(ctx, models.User{Username: "ana", Email: "b@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, storage.ErrUsernameTaken)

	_, err = s.CreateUser(ctx, models.User{Username: "bia", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)

	exists, err := s.ExistsByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.True(t, exists)

	phone := "81999990000"
	address := strings.Repeat("Rua das Flores 100, ", 30)
	require.NoError(t, s.UpdateUserProfile(ctx, id, models.ProfileUpdate{Phone: &phone, Address: &address}))

	u, err := s.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.FullName)
	assert.Equal(t, phone, u.Phone)
	assert.Equal(t, address, u.Address)
	assert.False(t, u.CreatedAt.IsZero())

	err = s.UpdateUserProfile(ctx, id+100, models.ProfileUpdate{Phone: &phone})
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestIntegration_ListingsAndMedia(t *testing.T) {
	s := setupTestDatabase(t)
	ctx := context.Background()
	factory := NewTestDataFactory(s)

	owner := factory.CreateUser(t, "ana", "a@x.com")
	first := factory.CreateListing(t, owner, "Conserto")

	second, err := s.CreateListing(ctx, models.Listing{Title: "Pintura", Price: 99.9, UserID: owner})
	require.NoError(t, err)

	_, err = s.CreateMedia(ctx, models.MediaFile{
		Filename: "f1.png", OriginalFilename: "f1.png", Kind: models.MediaImage,
		UserID: owner, ListingID: &first,
	})
	require.NoError(t, err)

	_, err = s.CreateMedia(ctx, models.MediaFile{
		Filename: "avatar.png", OriginalFilename: strings.Repeat("a", 400) + ".png",
		Kind: models.MediaImage, UserID: owner,
	})
	require.NoError(t, err)

	missing := second + 1000
	_, err = s.CreateMedia(ctx, models.MediaFile{
		Filename: "f2.mp4", Kind: models.MediaVideo, UserID: owner, ListingID: &missing,
	})
	assert.ErrorIs(t, err, storage.ErrListingNotFound)

	listings, err := s.ListListings(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, first, listings[0].ID)
	assert.Equal(t, "ana", listings[0].Owner.Name)
	assert.InDelta(t, 0.0, listings[0].Price, 1e-9)
	assert.InDelta(t, 99.9, listings[1].Price, 1e-9)

	media, err := s.ListListingMedia(ctx)
	require.NoError(t, err)
	require.Len(t, media, 1)
	assert.Equal(t, first, *media[0].ListingID)

	ok, err := s.ListingExists(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
}
