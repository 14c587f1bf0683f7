package models

import "time"

// OTP — одноразовый код подтверждения почты.
// На пользователя существует максимум одна живая запись: создаётся при
// регистрации, перезаписывается при resend, удаляется при успешной проверке.
// Наличие живой записи и означает "пользователь не верифицирован".
type OTP struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Code      string    `json:"-"` // 6 цифр, ведущие нули сохраняем
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
