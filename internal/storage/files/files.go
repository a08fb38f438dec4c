// Package files хранит содержимое загруженных файлов: в локальном каталоге
// или в S3-совместимом объектном хранилище.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/magabrotheeeer/service-marketplace/internal/config"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// Object открытый для чтения файл. Body закрывает вызывающий.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Store хранилище содержимого файлов, адресуемых плоским именем.
type Store interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (*Object, error)
	Delete(ctx context.Context, name string) error
}

// ValidName проверяет, что name это одиночный компонент пути и не скрытый
// файл. Имена с точкой в начале занимают временные файлы LocalStore.
func ValidName(name string) error {
	if name == "" || strings.HasPrefix(name, ".") ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// New создаёт хранилище согласно настройкам media.
func New(ctx context.Context, cfg config.Media) (Store, error) {
	const op = "files.New"
	switch cfg.Backend {
	case config.MediaBackendLocal:
		s, err := NewLocalStore(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	case config.MediaBackendS3:
		s, err := NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%s: unsupported media backend %q", op, cfg.Backend)
	}
}
