package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/pagination"
	"github.com/pixelkeys/pixelkeys-backend/pkg/security"
)

// Service exposes registration, profile management, and the admin user
// surface.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*UserDTO, error)
	GetUser(ctx context.Context, id uint) (*UserDTO, error)
	ListUsers(ctx context.Context, params pagination.Params) (*UserListDTO, error)
	UpdateStatus(ctx context.Context, id uint, status enums.UserStatus) (*UserDTO, error)
}

// RegisterInput holds the validated payload to create an account.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Age       *int
	Phone     *string
	BirthDate *time.Time
}

// UpdateProfileInput mutates the caller's own account. CurrentPassword must
// verify against the stored hash before anything changes.
type UpdateProfileInput struct {
	CurrentPassword string
	Name            *string
	Email           *string
	NewPassword     *string
	Age             *int
	Phone           *string
	ProfileImage    *string
	BirthDate       *time.Time
}

type service struct {
	repo        *Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs a user service instance.
func NewService(repo *Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// Register creates an active non-admin account.
func (s *service) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       enums.UserStatusActive,
		Age:          input.Age,
		Phone:        input.Phone,
		BirthDate:    input.BirthDate,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, err
	}
	return NewUserDTO(created), nil
}

// UpdateProfile applies the provided fields after verifying the caller's
// current password.
func (s *service) UpdateProfile(ctx context.Context, userID uint, input UpdateProfileInput) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ok, err := security.VerifyPassword(input.CurrentPassword, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		user.Email = email
	}
	if input.NewPassword != nil {
		if len(*input.NewPassword) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.NewPassword, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		user.PasswordHash = hash
	}
	if input.Age != nil {
		user.Age = input.Age
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.ProfileImage != nil {
		user.ProfileImage = input.ProfileImage
	}
	if input.BirthDate != nil {
		user.BirthDate = input.BirthDate
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
		}
		return nil, err
	}
	return NewUserDTO(updated), nil
}

// GetUser returns one account.
func (s *service) GetUser(ctx context.Context, id uint) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewUserDTO(user), nil
}

// ListUsers returns a cursor-paginated page for the admin back office.
func (s *service) ListUsers(ctx context.Context, params pagination.Params) (*UserListDTO, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.List(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	result := &UserListDTO{Users: make([]UserDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	for i := range rows {
		result.Users = append(result.Users, *NewUserDTO(&rows[i]))
	}
	return result, nil
}

// UpdateStatus blocks or unblocks an account.
func (s *service) UpdateStatus(ctx context.Context, id uint, status enums.UserStatus) (*UserDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user status")
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return NewUserDTO(updated), nil
}
