package models

import "time"

// Режимы связи. Пока принимаем только email (см. валидацию при регистрации).
const (
	ContactModeEmail = "email"
	ContactModePhone = "phone"
)

type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // не отдаём наружу
	ContactMode  string    `json:"contact_mode"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName — "имя фамилия", как отдаём в профиле.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type RegisterRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=5"`
	ContactMode string `json:"contactMode" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=5"`
}

type VerifyOTPRequest struct {
	OtpCode string `json:"otpCode" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	UpdatedPassword string `json:"updatedPassword" binding:"required,min=5"`
}
