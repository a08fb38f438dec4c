// Package storage объявляет ошибки уровня хранилища, общие для всех реализаций.
package storage

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailTaken      = errors.New("email already taken")
	ErrListingNotFound = errors.New("listing not found")
)
