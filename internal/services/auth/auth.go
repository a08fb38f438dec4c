// Package auth содержит бизнес-логику регистрации, входа и проверки токенов доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/magabrotheeeer/service-marketplace/internal/lib/jwt"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/password"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/service-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/service-marketplace/internal/models"
	"github.com/magabrotheeeer/service-marketplace/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenUserNotFound  = errors.New("token user not found")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// RegisterInput данные регистрации. Необязательные поля могут быть пустыми.
type RegisterInput struct {
	Username   string
	Email      string
	Password   string
	FullName   string
	Phone      string
	WhatsApp   string
	IsProvider bool
}

// UserRegistered полезная нагрузка события user.registered.
type UserRegistered struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	IsProvider bool   `json:"is_prestador"`
}

// AuthService отвечает за регистрацию, вход и проверку токенов.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	events   EventPublisher
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, events EventPublisher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		events:   events,
		log:      log,
	}
}

// Register создает пользователя. Занятое имя проверяется раньше занятой почты.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	const op = "auth.Register"

	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrUsernameTaken)
	}
	taken, err = s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrEmailTaken)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := s.users.CreateUser(ctx, models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed,
		FullName:     in.FullName,
		Phone:        in.Phone,
		WhatsApp:     in.WhatsApp,
		IsProvider:   in.IsProvider,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	event := UserRegistered{ID: id, Username: in.Username, IsProvider: in.IsProvider}
	if err := s.events.Publish(ctx, rabbitmq.UserRegistered, event); err != nil {
		s.log.Warn("failed to publish event", sl.Op(op), sl.Err(err))
	}
	return id, nil
}

// dummyHash сверяется с паролем, когда пользователь не найден.
var dummyHash = sync.OnceValue(func() string {
	h, _ := password.GetHash("marketplace-dummy-password")
	return h
})

// Login проверяет пароль и выпускает токен. Неизвестный пользователь и
// неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrUserNotFound) {
		_ = password.CompareHash(dummyHash(), rawPassword)
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// Verify проверяет токен и возвращает его владельца.
// Ошибки jwt.ErrTokenMalformed и jwt.ErrTokenExpired пробрасываются,
// удалённый владелец даёт ErrTokenUserNotFound.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.Verify"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrTokenUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}
