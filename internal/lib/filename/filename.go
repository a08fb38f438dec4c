// Package filename приводит имена загружаемых файлов к безопасному виду
// и строит уникальные имена для хранилища.
package filename

import (
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/magabrotheeeer/service-marketplace/internal/models"
)

// Fallback используется, когда после очистки от имени ничего не осталось.
const Fallback = "file"

// MaxCleanBytes предел длины очищенного имени в StorageName.
const MaxCleanBytes = 200

// maxExtBytes самое длинное расширение, которое сохраняется при обрезке.
const maxExtBytes = 16

const timestampLayout = "20060102_150405"

var imageExt = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
}

// Sanitize возвращает ASCII-имя без разделителей пути.
// Допустимы только буквы, цифры и символы "_", ".", "-".
// Пробельные серии превращаются в "_", ведущие и хвостовые "." и "_" срезаются.
func Sanitize(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r > unicode.MaxASCII {
			continue
		}
		if r == '/' || r == '\\' {
			r = ' '
		}
		b.WriteRune(r)
	}

	joined := strings.Join(strings.Fields(b.String()), "_")

	b.Reset()
	for _, r := range joined {
		if isAllowed(r) {
			b.WriteRune(r)
		}
	}

	return strings.Trim(b.String(), "._")
}

func isAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '.', r == '-':
		return true
	}
	return false
}

// RandomID возвращает 8 случайных шестнадцатеричных символов.
func RandomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// StorageName строит имя вида YYYYMMDD_HHMMSS_<id>_<очищенное имя>.
func StorageName(at time.Time, id, original string) string {
	clean := truncate(Sanitize(original))
	if clean == "" {
		clean = Fallback
	}
	return at.UTC().Format(timestampLayout) + "_" + id + "_" + clean
}

// truncate укорачивает ASCII-имя до MaxCleanBytes, сохраняя расширение.
func truncate(clean string) string {
	if len(clean) <= MaxCleanBytes {
		return clean
	}
	ext := filepath.Ext(clean)
	if len(ext) > maxExtBytes {
		ext = ""
	}
	stem := strings.TrimRight(clean[:MaxCleanBytes-len(ext)], "._")
	if stem == "" {
		stem = Fallback
	}
	return stem + ext
}

// Kind определяет тип медиа по расширению: png, jpg, jpeg и gif это
// изображения, всё остальное считается видео.
func Kind(name string) models.MediaKind {
	if _, ok := imageExt[strings.ToLower(filepath.Ext(name))]; ok {
		return models.MediaImage
	}
	return models.MediaVideo
}
