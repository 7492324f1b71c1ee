package service

import (
	"errors"
	"testing"

	"fileshare/internal/model"
	"fileshare/internal/pkg/auth"
	"fileshare/internal/repository"
)

func newTestUserService(t *testing.T) UserService {
	t.Helper()
	return NewUserService(repository.NewMemoryUserRepository(), nil, auth.NewAuthenticator("test-key"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.Register("Demo User", "user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Plan != model.PlanFree {
		t.Errorf("new user plan = %s, want free", user.Plan)
	}
	if user.SortBy != "date" || user.View != "grid" {
		t.Errorf("defaults not applied: sort=%s view=%s", user.SortBy, user.View)
	}

	token, logged, err := svc.Login("user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Error("login returned empty token")
	}
	if logged.ID != user.ID {
		t.Errorf("login returned wrong user: %d", logged.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService(t)

	if _, err := svc.Register("Demo User", "user@example.com", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register("Other", "user@example.com", "other"); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestUserService(t)

	if _, err := svc.Register("", "user@example.com", "hunter2"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name: err = %v, want ErrValidation", err)
	}
	if _, err := svc.Register("Demo", "", "hunter2"); !errors.Is(err, ErrValidation) {
		t.Errorf("empty email: err = %v, want ErrValidation", err)
	}
	if _, err := svc.Register("Demo", "user@example.com", ""); !errors.Is(err, ErrValidation) {
		t.Errorf("empty password: err = %v, want ErrValidation", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := newTestUserService(t)

	if _, err := svc.Register("Demo User", "user@example.com", "hunter2"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login("nobody@example.com", "hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login("user@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestUpgradeAccount(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.Register("Demo User", "user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	upgraded, err := svc.UpgradeAccount(user.ID)
	if err != nil {
		t.Fatalf("UpgradeAccount: %v", err)
	}
	if upgraded.Plan != model.PlanPro {
		t.Errorf("plan = %s, want pro", upgraded.Plan)
	}

	// Persisted, not just returned.
	again, err := svc.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID: %v", err)
	}
	if again.Plan != model.PlanPro {
		t.Errorf("persisted plan = %s, want pro", again.Plan)
	}
}

func TestUpdatePreferences(t *testing.T) {
	svc := newTestUserService(t)

	user, err := svc.Register("Demo User", "user@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	updated, err := svc.UpdatePreferences(user.ID, "size", "list")
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if updated.SortBy != "size" || updated.View != "list" {
		t.Errorf("preferences = %s/%s, want size/list", updated.SortBy, updated.View)
	}

	if _, err := svc.UpdatePreferences(user.ID, "color", "grid"); !errors.Is(err, ErrValidation) {
		t.Errorf("bad sort key: err = %v, want ErrValidation", err)
	}
	if _, err := svc.UpdatePreferences(user.ID, "name", "carousel"); !errors.Is(err, ErrValidation) {
		t.Errorf("bad view mode: err = %v, want ErrValidation", err)
	}
}
