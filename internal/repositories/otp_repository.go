package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"highway/internal/models"
)

type OTPRepository interface {
	Create(userID int, code string, expiresAt time.Time) (int64, error)
	GetByUserID(userID int) (*models.OTP, error)
	ExistsByUserID(userID int) (bool, error)
	Replace(userID int, otpID int64, code string, expiresAt time.Time) error
	DeleteByUserID(userID int) (int64, error)
}

type otpRepository struct {
	DB *sql.DB
}

func NewOTPRepository(db *sql.DB) OTPRepository {
	return &otpRepository{DB: db}
}

// Create — новая запись кода. Вызывается один раз, при регистрации.
// Конфликт по уникальному otp_code вернётся как ошибка БД, без ретраев.
func (r *otpRepository) Create(userID int, code string, expiresAt time.Time) (int64, error) {
	const q = `
		INSERT INTO otps (user_id, otp_code, expire_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int64
	if err := r.DB.QueryRow(q, userID, code, expiresAt).Scan(&id); err != nil {
		return 0, fmt.Errorf("otp create: %w", err)
	}
	return id, nil
}

func (r *otpRepository) GetByUserID(userID int) (*models.OTP, error) {
	const q = `
		SELECT id, user_id, otp_code, expire_at, created_at, updated_at
		FROM otps
		WHERE user_id = $1
	`
	row := r.DB.QueryRow(q, userID)
	var o models.OTP
	if err := row.Scan(&o.ID, &o.UserID, &o.Code, &o.ExpiresAt, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("otp get by user: %w", err)
	}
	return &o, nil
}

func (r *otpRepository) ExistsByUserID(userID int) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM otps WHERE user_id = $1)`
	var exists bool
	if err := r.DB.QueryRow(q, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("otp exists: %w", err)
	}
	return exists, nil
}

// Replace — перезаписываем код и срок по месту (resend).
// Второй строки на пользователя не появляется никогда.
func (r *otpRepository) Replace(userID int, otpID int64, code string, expiresAt time.Time) error {
	const q = `
		UPDATE otps
		SET otp_code = $1, expire_at = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
	`
	res, err := r.DB.Exec(q, code, expiresAt, otpID, userID)
	if err != nil {
		return fmt.Errorf("otp replace: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("otp replace: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("otp replace: no rows updated for id=%d user_id=%d", otpID, userID)
	}
	return nil
}

// DeleteByUserID — возвращает число удалённых строк; 0 строк решает вызывающий.
func (r *otpRepository) DeleteByUserID(userID int) (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM otps WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("otp delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("otp delete: %w", err)
	}
	return n, nil
}
