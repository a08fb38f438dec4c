package models

import "time"

// Listing это объявление об услуге, принадлежащее исполнителю.
type Listing struct {
	ID          int64
	Title       string
	Description string
	Category    string
	Price       float64
	UserID      int64
	CreatedAt   time.Time
}

// ListingOwner краткие сведения о владельце объявления.
type ListingOwner struct {
	ID       int64  `json:"id"`
	Name     string `json:"nome"`
	Phone    string `json:"telefone"`
	WhatsApp string `json:"whatsapp"`
	City     string `json:"cidade"`
}

// ListingView объявление в том виде, в котором его видит каталог.
type ListingView struct {
	ID          int64             `json:"id"`
	Title       string            `json:"titulo"`
	Description string            `json:"descricao"`
	Category    string            `json:"categoria"`
	Price       float64           `json:"preco"`
	Owner       ListingOwner      `json:"prestador"`
	Media       []MediaDescriptor `json:"medias"`
	CreatedAt   time.Time         `json:"created_at"`
}
