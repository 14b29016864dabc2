package service

import (
	"errors"
	"testing"
	"time"

	"peachy/config"
	"peachy/internal/domain"
	"peachy/internal/models"
)

// memAccounts is an in-memory UserAccountStore.
type memAccounts struct {
	nextID uint
	users  map[uint]*models.User
}

func newMemAccounts() *memAccounts {
	return &memAccounts{users: make(map[uint]*models.User)}
}

func (m *memAccounts) Create(u *models.User) error {
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = u
	return nil
}

func (m *memAccounts) GetByID(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (m *memAccounts) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memAccounts) GetByUsername(username string) (*models.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func newAuthFixture() (*AuthService, *memAccounts) {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access",
			RefreshSecret: "test-refresh",
			AccessExpiry:  time.Minute,
			RefreshExpiry: time.Hour,
			Issuer:        "peachy-test",
		},
	}
	store := newMemAccounts()
	return NewAuthService(cfg, store), store
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	svc, _ := newAuthFixture()

	u, access, refresh, err := svc.Register("fan@example.com", "fan1", "hunter22", domain.RoleFan)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.ID == 0 {
		t.Error("user not persisted")
	}
	if access == "" || refresh == "" {
		t.Error("expected both tokens")
	}
	if u.PasswordHash == "hunter22" {
		t.Error("password stored in the clear")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	if _, _, _, err := svc.Register("fan@example.com", "fan1", "hunter22", domain.RoleFan); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, _, err := svc.Register("fan@example.com", "fan2", "hunter22", domain.RoleFan)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newAuthFixture()

	if _, _, _, err := svc.Register("fan@example.com", "fan1", "hunter22", domain.RoleFan); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, _, _, err := svc.Register("other@example.com", "fan1", "hunter22", domain.RoleFan)
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("err = %v, want ErrUsernameExists", err)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	if _, _, _, err := svc.Register("fan@example.com", "fan1", "hunter22", domain.RoleFan); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, _, err := svc.Login("fan@example.com", "wrong"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("err = %v, want ErrInvalidCreds", err)
	}
	if _, _, _, err := svc.Login("nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCreds) {
		t.Fatalf("err = %v, want ErrInvalidCreds", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	svc, _ := newAuthFixture()

	reg, _, refresh, err := svc.Register("fan@example.com", "fan1", "hunter22", domain.RoleFan)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	u, access, next, err := svc.Refresh(refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if u.ID != reg.ID {
		t.Errorf("refreshed user: got %d, want %d", u.ID, reg.ID)
	}
	if access == "" || next == "" {
		t.Error("expected a fresh token pair")
	}
}
