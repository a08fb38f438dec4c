// Package password хеширует пароли bcrypt и сверяет их с сохранённым хэшем.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes предел длины пароля, который принимает bcrypt.
const MaxBytes = 72

var (
	// ErrMismatch возвращается, когда пароль не соответствует хэшу.
	ErrMismatch = errors.New("password does not match")
	ErrTooLong  = errors.New("password exceeds 72 bytes")
)

// GetHash принимает пароль пользователя и возвращает его bcrypt-хэш.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	if len(password) > MaxBytes {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает bcrypt-хэш с введённым паролем за постоянное время.
// Несовпадение даёт ErrMismatch, повреждённый хэш другую ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
