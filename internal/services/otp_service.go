package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"highway/internal/repositories"
)

var (
	ErrOTPNotFound = errors.New("otp not found")
	ErrOTPMismatch = errors.New("otp mismatch")
	ErrOTPExpired  = errors.New("otp expired")
)

const defaultOTPTTL = 5 * time.Minute

// OTPService — жизненный цикл кода подтверждения.
// Код не секретный в долгую (живёт 5 минут, одноразовый), поэтому храним
// и сравниваем как есть, без хэша.
type OTPService interface {
	IssueFor(userID int) (string, error)
	ReissueFor(userID int) (string, error)
	Consume(userID int, code string) error
	IsVerified(userID int) (bool, error)
}

type otpService struct {
	repo repositories.OTPRepository
	ttl  time.Duration
}

func NewOTPService(repo repositories.OTPRepository) OTPService {
	return &otpService{repo: repo, ttl: defaultOTPTTL}
}

// generateCode — равномерно случайный 6-значный код, ведущие нули сохраняем.
// Коллизии между пользователями возможны: уникальность держит индекс в БД,
// конфликт вставки — обычная ошибка хранилища, без ретраев.
func (s *otpService) generateCode() (string, time.Time) {
	src := rand.NewSource(time.Now().UnixNano())
	rnd := rand.New(src)
	code := fmt.Sprintf("%06d", rnd.Intn(1000000))
	return code, time.Now().Add(s.ttl)
}

// IssueFor — первый и единственный код при регистрации.
func (s *otpService) IssueFor(userID int) (string, error) {
	code, expiresAt := s.generateCode()
	if _, err := s.repo.Create(userID, code, expiresAt); err != nil {
		return "", err
	}
	log.Printf("[otp][issue] user_id=%d expires_at=%s", userID, expiresAt.Format(time.RFC3339))
	return code, nil
}

// ReissueFor — resend: перезаписываем код и срок в той же строке,
// старый код с этого момента недействителен.
func (s *otpService) ReissueFor(userID int) (string, error) {
	existing, err := s.repo.GetByUserID(userID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", ErrOTPNotFound
	}
	code, expiresAt := s.generateCode()
	if err := s.repo.Replace(userID, existing.ID, code, expiresAt); err != nil {
		return "", err
	}
	log.Printf("[otp][reissue] user_id=%d otp_id=%d expires_at=%s", userID, existing.ID, expiresAt.Format(time.RFC3339))
	return code, nil
}

// Consume — проверка и погашение кода. Сравнение — строгое строковое.
// Момент ровно на границе срока ещё не просрочен.
func (s *otpService) Consume(userID int, code string) error {
	rec, err := s.repo.GetByUserID(userID)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrOTPNotFound
	}
	if rec.Code != code {
		return ErrOTPMismatch
	}
	if time.Now().After(rec.ExpiresAt) {
		return ErrOTPExpired
	}
	n, err := s.repo.DeleteByUserID(userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("otp consume: nothing deleted for user_id=%d", userID)
	}
	log.Printf("[otp][consume] OK user_id=%d", userID)
	return nil
}

// IsVerified — статус выводится из наличия живой записи, отдельного
// флага на пользователе нет.
func (s *otpService) IsVerified(userID int) (bool, error) {
	exists, err := s.repo.ExistsByUserID(userID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}
