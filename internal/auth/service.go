package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pixelkeys/pixelkeys-backend/internal/users"
	"github.com/pixelkeys/pixelkeys-backend/pkg/auth"
	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/security"
)

// Service exposes login and logout.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, accessID string) error
}

// LoginResult bundles the minted token with the authenticated account.
type LoginResult struct {
	Token string        `json:"token"`
	User  users.UserDTO `json:"user"`
}

type userRepo interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
}

type sessionManager interface {
	Create(ctx context.Context, userID uint) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	repo     userRepo
	sessions sessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService constructs an auth service instance.
func NewService(repo userRepo, sessions sessionManager, jwtCfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

// Login verifies credentials, rejects blocked accounts, records the login
// time, and mints a JWT bound to a Redis session.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and wrong password read the same to the client.
		if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	if user.Status == enums.UserStatusBlocked {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is blocked")
	}

	accessID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating session")
	}

	now := s.now()
	token, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}

	user.LastLoginAt = &now
	if _, err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: *users.NewUserDTO(user)}, nil
}

// Logout revokes the session tied to the token's jti.
func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "access id is required")
	}
	return s.sessions.Revoke(ctx, accessID)
}
