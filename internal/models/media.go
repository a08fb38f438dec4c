package models

import "time"

// MediaKind тип загруженного файла.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaFile метаданные загруженного файла. Содержимое лежит в хранилище блобов
// под именем Filename.
type MediaFile struct {
	ID               int64
	Filename         string
	OriginalFilename string
	Kind             MediaKind
	ContentType      string
	SizeBytes        int64
	UserID           int64
	ListingID        *int64
	CreatedAt        time.Time
}

// MediaDescriptor ссылка на медиафайл внутри объявления.
type MediaDescriptor struct {
	Filename string    `json:"filename"`
	Kind     MediaKind `json:"type"`
}
