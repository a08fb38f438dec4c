// Package jwt выпускает и проверяет подписанные HS256 токены доступа.
//
// Maker определяет интерфейс для создания и проверки токенов,
// MakerImpl это реализация с симметричным ключом и сроком жизни.
package jwt

import (
	"errors"
	"time"
)

// Ошибки проверки токена. Вызывающий код различает их через errors.Is.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token is expired")
)

// Maker описывает интерфейс для генерации и парсинга токенов.
type Maker interface {
	GenerateToken(userID int64) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
