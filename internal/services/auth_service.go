package services

import (
	"golang.org/x/crypto/bcrypt"
)

// AuthService — непрозрачный хэш пароля: захэшировать и сравнить.
type AuthService interface {
	HashPassword(plain string) (string, error)
	ComparePassword(plain, hash string) bool
}

type authService struct{}

func NewAuthService() AuthService {
	return &authService{}
}

func (s *authService) HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *authService) ComparePassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
