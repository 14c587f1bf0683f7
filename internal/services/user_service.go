package services

import (
	"errors"
	"fmt"
	"strings"

	"highway/internal/models"
	"highway/internal/repositories"
)

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrCurrentPasswordMismatch = errors.New("current password mismatch")
	ErrPasswordUnchanged       = errors.New("new password must differ from current")
)

type UserService interface {
	Register(user *models.User, plainPassword string) error
	GetUserByID(id int) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ChangePassword(userID int, currentPassword, updatedPassword string) error
}

type userService struct {
	repo repositories.UserRepository
	auth AuthService
}

func NewUserService(repo repositories.UserRepository, auth AuthService) UserService {
	return &userService{repo: repo, auth: auth}
}

// Register — хэшируем пароль и создаём пользователя.
// Занятый email пробрасываем как repositories.ErrEmailTaken.
func (s *userService) Register(user *models.User, plainPassword string) error {
	if strings.TrimSpace(plainPassword) == "" {
		return fmt.Errorf("password is required")
	}
	hash, err := s.auth.HashPassword(plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.repo.Create(user)
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.repo.GetByEmail(email)
}

// ChangePassword — смена пароля залогиненным пользователем.
// Текущий пароль живёт только в локальных переменных этого запроса.
func (s *userService) ChangePassword(userID int, currentPassword, updatedPassword string) error {
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !s.auth.ComparePassword(currentPassword, user.PasswordHash) {
		return ErrCurrentPasswordMismatch
	}
	if currentPassword == updatedPassword {
		return ErrPasswordUnchanged
	}
	hash, err := s.auth.HashPassword(updatedPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(userID, hash)
}
