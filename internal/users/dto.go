package users

import (
	"time"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
)

// UserDTO is the account payload returned to clients. The password hash never
// appears here.
type UserDTO struct {
	ID           uint       `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	IsAdmin      bool       `json:"is_admin"`
	Status       int        `json:"status"`
	Age          *int       `json:"age,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	ProfileImage *string    `json:"profile_image,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UserListDTO is a cursor-paginated page of users.
type UserListDTO struct {
	Users      []UserDTO `json:"users"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// NewUserDTO builds a DTO from the persisted model.
func NewUserDTO(user *models.User) *UserDTO {
	return &UserDTO{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		IsAdmin:      user.IsAdmin,
		Status:       int(user.Status),
		Age:          user.Age,
		Phone:        user.Phone,
		ProfileImage: user.ProfileImage,
		BirthDate:    user.BirthDate,
		LastLoginAt:  user.LastLoginAt,
		CreatedAt:    user.CreatedAt,
	}
}
