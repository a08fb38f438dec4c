// Package profile читает и частично обновляет профиль пользователя.
package profile

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
)

// Repository хранилище профилей.
type Repository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error
}

// Service операции над профилем текущего пользователя.
type Service struct {
	repo Repository
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get возвращает профиль пользователя id.
func (s *Service) Get(ctx context.Context, id int64) (*models.User, error) {
	const op = "profile.Get"
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// Update перезаписывает только заданные в upd поля и возвращает обновлённый профиль.
func (s *Service) Update(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	const op = "profile.Update"
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if upd.Empty() {
		return u, nil
	}
	if err := s.repo.UpdateUserProfile(ctx, id, upd); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	upd.Apply(u)
	return u, nil
}
