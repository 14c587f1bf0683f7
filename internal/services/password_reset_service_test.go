package services

import (
	"testing"
	"time"

	"highway/internal/models"
	"highway/internal/repositories"
)

type fakeUserRepo struct {
	byID    map[int]*models.User
	byEmail map[string]*models.User
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int]*models.User{}, byEmail: map[string]*models.User{}}
}

func (r *fakeUserRepo) Create(user *models.User) error {
	if _, ok := r.byEmail[user.Email]; ok {
		return repositories.ErrEmailTaken
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	r.byID[user.ID] = &cp
	r.byEmail[user.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePassword(userID int, passwordHash string) error {
	u, ok := r.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

type fakeResetRepo struct {
	byToken map[string]*models.PasswordReset
	nextID  int
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{byToken: map[string]*models.PasswordReset{}}
}

func (r *fakeResetRepo) Create(userID int, token string, expiresAt time.Time) (*models.PasswordReset, error) {
	r.nextID++
	pr := &models.PasswordReset{
		ID:        r.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	r.byToken[token] = pr
	return pr, nil
}

func (r *fakeResetRepo) GetByToken(token string) (*models.PasswordReset, error) {
	pr, ok := r.byToken[token]
	if !ok {
		return nil, nil
	}
	cp := *pr
	return &cp, nil
}

func (r *fakeResetRepo) MarkUsed(id int) error {
	for _, pr := range r.byToken {
		if pr.ID == id {
			now := time.Now()
			pr.UsedAt = &now
			return nil
		}
	}
	return nil
}

type silentMailer struct {
	lastToken string
}

func (m *silentMailer) SendOTPEmail(email, code string) error        { return nil }
func (m *silentMailer) SendUpdatedOTPEmail(email, code string) error { return nil }
func (m *silentMailer) SendPasswordResetEmail(email, token string) error {
	m.lastToken = token
	return nil
}

func TestPasswordResetFlow(t *testing.T) {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	auth := NewAuthService()
	mailer := &silentMailer{}
	svc := NewPasswordResetService(users, resets, mailer, auth)

	userSvc := NewUserService(users, auth)
	u := &models.User{FirstName: "Ann", LastName: "Lee", Email: "ann@x.com", ContactMode: models.ContactModeEmail}
	if err := userSvc.Register(u, "pw1234"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.RequestReset("ann@x.com"); err != nil {
		t.Fatalf("RequestReset: %v", err)
	}
	if mailer.lastToken == "" {
		t.Fatal("no reset token mailed")
	}

	if err := svc.ResetPassword(mailer.lastToken, "pw5678"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	stored, _ := users.GetByID(u.ID)
	if !auth.ComparePassword("pw5678", stored.PasswordHash) {
		t.Fatal("password was not updated")
	}

	// токен одноразовый
	if err := svc.ResetPassword(mailer.lastToken, "pw9999"); err != ErrResetTokenInvalid {
		t.Fatalf("token reuse: got %v, want ErrResetTokenInvalid", err)
	}
}

func TestPasswordResetUnknownEmailDoesNotLeak(t *testing.T) {
	svc := NewPasswordResetService(newFakeUserRepo(), newFakeResetRepo(), &silentMailer{}, NewAuthService())
	if err := svc.RequestReset("nobody@x.com"); err != nil {
		t.Fatalf("RequestReset for unknown email must succeed, got %v", err)
	}
}

func TestPasswordResetExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	auth := NewAuthService()
	mailer := &silentMailer{}
	svc := NewPasswordResetService(users, resets, mailer, auth)

	userSvc := NewUserService(users, auth)
	u := &models.User{FirstName: "Bob", LastName: "Ray", Email: "bob@x.com", ContactMode: models.ContactModeEmail}
	_ = userSvc.Register(u, "pw1234")

	_ = svc.RequestReset("bob@x.com")
	resets.byToken[mailer.lastToken].ExpiresAt = time.Now().Add(-time.Minute)

	if err := svc.ResetPassword(mailer.lastToken, "pw5678"); err != ErrResetTokenInvalid {
		t.Fatalf("expired token: got %v, want ErrResetTokenInvalid", err)
	}
}

func TestChangePassword(t *testing.T) {
	users := newFakeUserRepo()
	auth := NewAuthService()
	svc := NewUserService(users, auth)

	u := &models.User{FirstName: "Cid", LastName: "Orr", Email: "cid@x.com", ContactMode: models.ContactModeEmail}
	if err := svc.Register(u, "pw1234"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(u.ID, "wrong", "pw5678"); err != ErrCurrentPasswordMismatch {
		t.Fatalf("wrong current: got %v, want ErrCurrentPasswordMismatch", err)
	}
	if err := svc.ChangePassword(u.ID, "pw1234", "pw1234"); err != ErrPasswordUnchanged {
		t.Fatalf("same password: got %v, want ErrPasswordUnchanged", err)
	}
	if err := svc.ChangePassword(u.ID, "pw1234", "pw5678"); err != nil {
		t.Fatalf("change: %v", err)
	}
	stored, _ := users.GetByID(u.ID)
	if !auth.ComparePassword("pw5678", stored.PasswordHash) {
		t.Fatal("new password does not match stored hash")
	}
	if auth.ComparePassword("pw1234", stored.PasswordHash) {
		t.Fatal("old password still matches")
	}
}
