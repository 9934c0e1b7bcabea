package auth

import (
	"context"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pixelkeys/pixelkeys-backend/internal/users"
	pkgauth "github.com/pixelkeys/pixelkeys-backend/pkg/auth"
	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/security"
)

type stubSessions struct {
	created []uint
	revoked []string
}

func (s *stubSessions) Create(_ context.Context, userID uint) (string, error) {
	s.created = append(s.created, userID)
	return "session-1", nil
}

func (s *stubSessions) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "pixelkeys", ExpirationMinutes: 30}
}

func newTestAuth(t *testing.T) (Service, *users.Repository, *stubSessions) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := users.NewRepository(conn)
	sessions := &stubSessions{}
	svc, err := NewService(repo, sessions, testJWTConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, sessions
}

func seedUser(t *testing.T, repo *users.Repository, email, password string, admin bool, status enums.UserStatus) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := repo.Create(context.Background(), &models.User{
		Name:         "Test",
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      admin,
		Status:       status,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestLoginMintsTokenBoundToSession(t *testing.T) {
	svc, repo, sessions := newTestAuth(t)
	ctx := context.Background()
	seedUser(t, repo, "ana@example.com", "hunter2hunter2", true, enums.UserStatusActive)

	result, err := svc.Login(ctx, " Ana@Example.com ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if len(sessions.created) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions.created))
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.UserID != result.User.ID || !claims.IsAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.ID != "session-1" {
		t.Fatalf("token jti not bound to session: %q", claims.ID)
	}
	if result.User.LastLoginAt == nil {
		t.Fatal("last login not recorded")
	}
}

func TestLoginInvalidCredentialsReadTheSame(t *testing.T) {
	svc, repo, _ := newTestAuth(t)
	ctx := context.Background()
	seedUser(t, repo, "ana@example.com", "hunter2hunter2", false, enums.UserStatusActive)

	for _, tc := range []struct{ email, password string }{
		{"ana@example.com", "wrong-password"},
		{"ghost@example.com", "hunter2hunter2"},
	} {
		_, err := svc.Login(ctx, tc.email, tc.password)
		appErr := pkgerrors.As(err)
		if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("expected unauthorized for %s, got %v", tc.email, err)
		}
		if appErr.Message() != "invalid credentials" {
			t.Fatalf("message leaks detail: %q", appErr.Message())
		}
	}
}

func TestLoginRejectsBlockedAccount(t *testing.T) {
	svc, repo, sessions := newTestAuth(t)
	seedUser(t, repo, "ana@example.com", "hunter2hunter2", false, enums.UserStatusBlocked)

	_, err := svc.Login(context.Background(), "ana@example.com", "hunter2hunter2")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(sessions.created) != 0 {
		t.Fatal("session created for blocked account")
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions := newTestAuth(t)

	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "session-1" {
		t.Fatalf("unexpected revocations %v", sessions.revoked)
	}

	if err := svc.Logout(context.Background(), " "); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error, got %v", err)
	}
}
