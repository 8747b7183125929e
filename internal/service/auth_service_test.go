package service

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/task-tracker/internal/config"
	apperrors "github.com/spec-kit/task-tracker/pkg/util"
)

func newTestAuthService() (*AuthService, *fakeUserRepository) {
	repo := newFakeUserRepository()
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}
	return NewAuthService(cfg, repo), repo
}

func TestRegisterUser_TokenResolvesToNewOwner(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	user, token, _, err := svc.RegisterUser(ctx, "Demo User", "demo@example.com", "password123")
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}
	if user.ID == "" {
		t.Fatal("user id not assigned")
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token resolves to %q, want %q", claims.UserID, user.ID)
	}
}

func TestRegisterUser_Validation(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing name", "", "a@example.com", "pw"},
		{"missing email", "A", "", "pw"},
		{"missing password", "A", "a@example.com", ""},
		{"malformed email", "A", "not-an-email", "pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.RegisterUser(ctx, tt.userName, tt.email, tt.password)
			var de *apperrors.DomainError
			if !errors.As(err, &de) || de.Code != "VALIDATION_FAILED" {
				t.Errorf("RegisterUser() error = %v, want VALIDATION_FAILED", err)
			}
		})
	}
}

func TestRegisterUser_DuplicateEmailCaseInsensitive(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, _, _, err := svc.RegisterUser(ctx, "A", "demo@example.com", "pw123456"); err != nil {
		t.Fatalf("first RegisterUser() error = %v", err)
	}
	_, _, _, err := svc.RegisterUser(ctx, "B", "DEMO@Example.COM", "pw123456")
	var de *apperrors.DomainError
	if !errors.As(err, &de) || de.Code != "VALIDATION_FAILED" {
		t.Errorf("duplicate RegisterUser() error = %v, want VALIDATION_FAILED", err)
	}
}

func TestLoginUser(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	registered, _, _, err := svc.RegisterUser(ctx, "Demo", "demo@example.com", "password123")
	if err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	user, token, _, err := svc.LoginUser(ctx, "demo@example.com", "password123")
	if err != nil {
		t.Fatalf("LoginUser() error = %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("login resolved %q, want %q", user.ID, registered.ID)
	}
	if token == "" {
		t.Error("login returned empty token")
	}
}

func TestLoginUser_InvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, _, _, err := svc.RegisterUser(ctx, "Demo", "demo@example.com", "password123"); err != nil {
		t.Fatalf("RegisterUser() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "demo@example.com", "nope"},
		{"unknown account", "other@example.com", "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := svc.LoginUser(ctx, tt.email, tt.password)
			var de *apperrors.DomainError
			if !errors.As(err, &de) || de.Code != "UNAUTHORIZED" {
				t.Errorf("LoginUser() error = %v, want UNAUTHORIZED", err)
			}
		})
	}
}
