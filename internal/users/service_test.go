package users

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/pagination"
	"github.com/pixelkeys/pixelkeys-backend/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := NewRepository(conn)
	svc, err := NewService(repo, testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: " Ana@Example.com ", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", dto.Email)
	}
	if dto.IsAdmin {
		t.Fatal("new accounts must not be admin")
	}
	if dto.Status != int(enums.UserStatusActive) {
		t.Fatalf("expected active status, got %d", dto.Status)
	}

	stored, err := repo.FindByID(ctx, dto.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.PasswordHash == "hunter2hunter2" || stored.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}
	ok, err := security.VerifyPassword("hunter2hunter2", stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "hunter2hunter2"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Name: "Other", Email: "ana@example.com", Password: "hunter2hunter2"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"empty name", RegisterInput{Email: "a@b.c", Password: "hunter2hunter2"}},
		{"empty email", RegisterInput{Name: "A", Password: "hunter2hunter2"}},
		{"short password", RegisterInput{Name: "A", Email: "a@b.c", Password: "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.input)
			appErr := pkgerrors.As(err)
			if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProfileRequiresCurrentPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	newName := "Ana Maria"
	_, err = svc.UpdateProfile(ctx, dto.ID, UpdateProfileInput{CurrentPassword: "wrong", Name: &newName})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	updated, err := svc.UpdateProfile(ctx, dto.ID, UpdateProfileInput{CurrentPassword: "hunter2hunter2", Name: &newName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Ana Maria" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	newPassword := "correct-horse-battery"
	if _, err := svc.UpdateProfile(ctx, dto.ID, UpdateProfileInput{CurrentPassword: "hunter2hunter2", NewPassword: &newPassword}); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, err := repo.FindByID(ctx, dto.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	ok, err := security.VerifyPassword(newPassword, stored.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new password does not verify: %v", err)
	}
}

func TestUpdateStatusBlocksUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	blocked, err := svc.UpdateStatus(ctx, dto.ID, enums.UserStatusBlocked)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if blocked.Status != int(enums.UserStatusBlocked) {
		t.Fatalf("expected blocked status, got %d", blocked.Status)
	}

	if _, err := svc.UpdateStatus(ctx, dto.ID, enums.UserStatus(9)); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for bogus status, got %v", err)
	}
}

func TestListUsersPaginates(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		user := &models.User{
			Name:         "User",
			Email:        string(rune('a'+i)) + "@example.com",
			PasswordHash: "x",
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := repo.Create(ctx, user); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}

	first, err := svc.ListUsers(ctx, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first.Users) != 2 || first.NextCursor == nil {
		t.Fatalf("unexpected first page: %d users, cursor %v", len(first.Users), first.NextCursor)
	}

	second, err := svc.ListUsers(ctx, pagination.Params{Limit: 2, Cursor: *first.NextCursor})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Users) != 1 || second.NextCursor != nil {
		t.Fatalf("unexpected second page: %d users, cursor %v", len(second.Users), second.NextCursor)
	}
}
