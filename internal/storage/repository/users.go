package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

const userColumns = `id, username, email, password_hash, full_name, phone, whatsapp,
	address, city, state, postal_code, bio, avatar, is_provider, created_at`

// ExistsByUsername сообщает, занято ли имя пользователя.
func (s *Storage) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	const op = "storage.ExistsByUsername"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	if err := s.DB.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ExistsByEmail сообщает, занята ли электронная почта.
func (s *Storage) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "storage.ExistsByEmail"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateUser сохраняет нового пользователя и возвращает его ID.
// Гонка на уникальных полях превращается в ErrUsernameTaken или ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (username, email, password_hash, full_name, phone,
			      whatsapp, address, city, state, postal_code, bio, avatar, is_provider)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.FullName, user.Phone,
		user.WhatsApp, user.Address, user.City, user.State, user.PostalCode,
		user.Bio, user.Avatar, user.IsProvider).Scan(&newID)
	if err != nil {
		if constraint, ok := isUniqueViolation(err); ok {
			switch constraint {
			case "users_username_key":
				return 0, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
			case "users_email_key":
				return 0, fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
			}
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по его ID.
func (s *Storage) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// UpdateUserProfile перезаписывает только заданные поля профиля.
func (s *Storage) UpdateUserProfile(ctx context.Context, id int64, upd models.ProfileUpdate) error {
	const op = "storage.UpdateUserProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET full_name   = COALESCE($2, full_name),
			      phone       = COALESCE($3, phone),
			      whatsapp    = COALESCE($4, whatsapp),
			      address     = COALESCE($5, address),
			      city        = COALESCE($6, city),
			      state       = COALESCE($7, state),
			      postal_code = COALESCE($8, postal_code),
			      bio         = COALESCE($9, bio),
			      avatar      = COALESCE($10, avatar)
			  WHERE id = $1`
	res, err := s.DB.ExecContext(ctx, query, id,
		upd.FullName, upd.Phone, upd.WhatsApp, upd.Address, upd.City,
		upd.State, upd.PostalCode, upd.Bio, upd.Avatar)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
	}
	return nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Phone, &u.WhatsApp, &u.Address, &u.City, &u.State, &u.PostalCode,
		&u.Bio, &u.Avatar, &u.IsProvider, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
