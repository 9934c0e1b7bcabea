package controllers

import (
	"net/http"
	"time"

	"github.com/pixelkeys/pixelkeys-backend/api/middleware"
	"github.com/pixelkeys/pixelkeys-backend/api/responses"
	"github.com/pixelkeys/pixelkeys-backend/api/validators"
	"github.com/pixelkeys/pixelkeys-backend/internal/users"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
)

type registerRequest struct {
	Name      string  `json:"name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	Age       *int    `json:"age"`
	Phone     *string `json:"phone"`
	BirthDate *string `json:"birth_date"`
}

type updateProfileRequest struct {
	CurrentPassword string  `json:"current_password" validate:"required"`
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	NewPassword     *string `json:"new_password"`
	Age             *int    `json:"age"`
	Phone           *string `json:"phone"`
	ProfileImage    *string `json:"profile_image"`
	BirthDate       *string `json:"birth_date"`
}

type updateUserStatusRequest struct {
	Status int `json:"status" validate:"min=0,max=1"`
}

// UserRegister creates an account.
func UserRegister(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		birthDate, err := parseBirthDate(req.BirthDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.Register(r.Context(), users.RegisterInput{
			Name:      req.Name,
			Email:     req.Email,
			Password:  req.Password,
			Age:       req.Age,
			Phone:     req.Phone,
			BirthDate: birthDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, user)
	}
}

// UserUpdate mutates the caller's own profile after re-checking the password.
func UserUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateProfileRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		birthDate, err := parseBirthDate(req.BirthDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), users.UpdateProfileInput{
			CurrentPassword: req.CurrentPassword,
			Name:            req.Name,
			Email:           req.Email,
			NewPassword:     req.NewPassword,
			Age:             req.Age,
			Phone:           req.Phone,
			ProfileImage:    req.ProfileImage,
			BirthDate:       birthDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// UsersList returns a cursor-paginated page of accounts.
func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := parsePaginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.ListUsers(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// UserUpdateStatus blocks or unblocks an account.
func UserUpdateStatus(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req updateUserStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		user, err := svc.UpdateStatus(r.Context(), id, enums.UserStatus(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func parseBirthDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "birth_date must be YYYY-MM-DD")
	}
	return &parsed, nil
}
