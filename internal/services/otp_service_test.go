package services

import (
	"regexp"
	"testing"
	"time"

	"highway/internal/models"
)

type fakeOTPRepo struct {
	records map[int]*models.OTP
	nextID  int64
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{records: map[int]*models.OTP{}}
}

func (r *fakeOTPRepo) Create(userID int, code string, expiresAt time.Time) (int64, error) {
	r.nextID++
	now := time.Now()
	r.records[userID] = &models.OTP{
		ID:        r.nextID,
		UserID:    userID,
		Code:      code,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return r.nextID, nil
}

func (r *fakeOTPRepo) GetByUserID(userID int) (*models.OTP, error) {
	rec, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *fakeOTPRepo) ExistsByUserID(userID int) (bool, error) {
	_, ok := r.records[userID]
	return ok, nil
}

func (r *fakeOTPRepo) Replace(userID int, otpID int64, code string, expiresAt time.Time) error {
	rec, ok := r.records[userID]
	if !ok || rec.ID != otpID {
		return ErrOTPNotFound
	}
	rec.Code = code
	rec.ExpiresAt = expiresAt
	rec.UpdatedAt = time.Now()
	return nil
}

func (r *fakeOTPRepo) DeleteByUserID(userID int) (int64, error) {
	if _, ok := r.records[userID]; !ok {
		return 0, nil
	}
	delete(r.records, userID)
	return 1, nil
}

var sixDigits = regexp.MustCompile(`^\d{6}$`)

func TestIssueForCreatesSixDigitCode(t *testing.T) {
	repo := newFakeOTPRepo()
	svc := NewOTPService(repo)

	before := time.Now()
	code, err := svc.IssueFor(1)
	if err != nil {
		t.Fatalf("IssueFor: %v", err)
	}
	if !sixDigits.MatchString(code) {
		t.Fatalf("code %q is not 6 digits", code)
	}

	rec, _ := repo.GetByUserID(1)
	if rec == nil {
		t.Fatal("no record stored")
	}
	if rec.Code != code {
		t.Fatalf("stored code %q != returned %q", rec.Code, code)
	}
	ttl := rec.ExpiresAt.Sub(before)
	if ttl < 4*time.Minute+30*time.Second || ttl > 5*time.Minute+30*time.Second {
		t.Fatalf("expiry %s is not ~5 minutes out", ttl)
	}
}

func TestConsumeDeletesRecord(t *testing.T) {
	repo := newFakeOTPRepo()
	svc := NewOTPService(repo)

	code, _ := svc.IssueFor(1)
	if err := svc.Consume(1, code); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if rec, _ := repo.GetByUserID(1); rec != nil {
		t.Fatal("record still present after consume")
	}
	// повторное гашение — кода уже нет
	if err := svc.Consume(1, code); err != ErrOTPNotFound {
		t.Fatalf("second Consume: got %v, want ErrOTPNotFound", err)
	}
}

func TestConsumeMismatchKeepsRecord(t *testing.T) {
	repo := newFakeOTPRepo()
	svc := NewOTPService(repo)

	code, _ := svc.IssueFor(1)
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	if err := svc.Consume(1, wrong); err != ErrOTPMismatch {
		t.Fatalf("Consume wrong code: got %v, want ErrOTPMismatch", err)
	}
	if rec, _ := repo.GetByUserID(1); rec == nil {
		t.Fatal("record deleted on mismatch")
	}
	if err := svc.Consume(1, code); err != nil {
		t.Fatalf("Consume after mismatch: %v", err)
	}
}

func TestConsumeExpired(t *testing.T) {
	repo := newFakeOTPRepo()
	svc := NewOTPService(repo)

	code, _ := svc.IssueFor(1)
	repo.records[1].ExpiresAt = time.Now().Add(-time.Second)

	if err := svc.Consume(1, code); err != ErrOTPExpired {
		t.Fatalf("Consume expired: got %v, want ErrOTPExpired", err)
	}
	// просроченный код не удаляется: пользователь уходит в resend
	if rec, _ := repo.GetByUserID(1); rec == nil {
		t.Fatal("expired record was deleted")
	}
}

func TestConsumeNotExpiredBeforeDeadline(t *testing.T) {
	repo := newFakeOTPRepo()
	svc := NewOTPService(repo)

	code, _ := svc.IssueFor(1)
	repo.records[1].ExpiresAt = time.Now().Add(time.Hour)

	if err := svc.Consume(1, code); err != nil {
		t.Fatalf("Consume before deadline: %v", err)
	}
}

func TestReissueReplacesCodeInPlace(t *testing.T) {
	repo := newFakeOTPRepo()
	svc := NewOTPService(repo)

	code1, _ := svc.IssueFor(1)
	id1 := repo.records[1].ID

	code2, err := svc.ReissueFor(1)
	if err != nil {
		t.Fatalf("ReissueFor: %v", err)
	}
	if repo.records[1].ID != id1 {
		t.Fatal("reissue created a new row instead of updating in place")
	}
	if !sixDigits.MatchString(code2) {
		t.Fatalf("reissued code %q is not 6 digits", code2)
	}

	if code1 != code2 {
		if err := svc.Consume(1, code1); err != ErrOTPMismatch {
			t.Fatalf("old code after reissue: got %v, want ErrOTPMismatch", err)
		}
	}
	if err := svc.Consume(1, code2); err != nil {
		t.Fatalf("new code after reissue: %v", err)
	}
}

func TestReissueWithoutRecord(t *testing.T) {
	svc := NewOTPService(newFakeOTPRepo())
	if _, err := svc.ReissueFor(42); err != ErrOTPNotFound {
		t.Fatalf("ReissueFor without record: got %v, want ErrOTPNotFound", err)
	}
}

func TestIsVerifiedDerivedFromRecordPresence(t *testing.T) {
	repo := newFakeOTPRepo()
	svc := NewOTPService(repo)

	if v, _ := svc.IsVerified(1); !v {
		t.Fatal("user with no otp record must count as verified")
	}
	code, _ := svc.IssueFor(1)
	if v, _ := svc.IsVerified(1); v {
		t.Fatal("user with live otp record must count as unverified")
	}
	_ = svc.Consume(1, code)
	if v, _ := svc.IsVerified(1); !v {
		t.Fatal("user must become verified the instant the record is deleted")
	}
}
