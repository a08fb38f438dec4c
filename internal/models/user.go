// Package models содержит доменные сущности маркетплейса услуг:
// пользователей, объявления, медиафайлы и заявки на обслуживание.
package models

import "time"

// User представляет зарегистрированного пользователя (клиента или исполнителя).
type User struct {
	ID           int64
	Username     string // Уникальное имя пользователя, до 80 символов
	Email        string // Уникальная электронная почта, до 120 символов
	PasswordHash string // bcrypt-хэш, наружу не отдаётся
	FullName     string
	Phone        string
	WhatsApp     string
	Address      string
	City         string
	State        string
	PostalCode   string
	Bio          string
	Avatar       string // Имя файла аватара в хранилище медиа
	IsProvider   bool   // Пользователь оказывает услуги
	CreatedAt    time.Time
}

// ProfileUpdate описывает частичное обновление профиля.
// Поле со значением nil остаётся без изменений.
type ProfileUpdate struct {
	FullName   *string
	Phone      *string
	WhatsApp   *string
	Address    *string
	City       *string
	State      *string
	PostalCode *string
	Bio        *string
	Avatar     *string
}

// Apply переносит заданные поля обновления в пользователя.
func (p ProfileUpdate) Apply(u *User) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&u.FullName, p.FullName)
	set(&u.Phone, p.Phone)
	set(&u.WhatsApp, p.WhatsApp)
	set(&u.Address, p.Address)
	set(&u.City, p.City)
	set(&u.State, p.State)
	set(&u.PostalCode, p.PostalCode)
	set(&u.Bio, p.Bio)
	set(&u.Avatar, p.Avatar)
}

// Empty сообщает, что обновление не содержит ни одного поля.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.WhatsApp == nil &&
		p.Address == nil && p.City == nil && p.State == nil &&
		p.PostalCode == nil && p.Bio == nil && p.Avatar == nil
}
