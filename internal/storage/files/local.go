package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// LocalStore хранит файлы в одном каталоге файловой системы.
type LocalStore struct {
	dir string
}

// NewLocalStore создаёт каталог dir, если его нет.
func NewLocalStore(dir string) (*LocalStore, error) {
	const op = "files.NewLocalStore"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save записывает файл во временный файл и атомарно переименовывает его.
func (s *LocalStore) Save(ctx context.Context, name string, r io.Reader, _ int64, _ string) error {
	const op = "files.LocalStore.Save"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if err := ValidName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err = io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Open открывает файл name. Тип содержимого берётся по расширению,
// для неизвестных расширений определяется по содержимому.
func (s *LocalStore) Open(ctx context.Context, name string) (*Object, error) {
	const op = "files.LocalStore.Open"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if err := ValidName(name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		contentType = mt.String()
	}

	return &Object{Body: f, ContentType: contentType, Size: info.Size()}, nil
}

// Delete удаляет файл. Отсутствие файла ошибкой не считается.
func (s *LocalStore) Delete(ctx context.Context, name string) error {
	const op = "files.LocalStore.Delete"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if err := ValidName(name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
