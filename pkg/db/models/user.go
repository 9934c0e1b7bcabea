package models

import (
	"time"

	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

// User represents the canonical identity entity. The password hash never
// leaves the persistence layer.
type User struct {
	ID           uint             `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	IsAdmin      bool             `gorm:"column:is_admin;not null;default:false"`
	Status       enums.UserStatus `gorm:"column:status;not null;default:0"`
	Age          *int             `gorm:"column:age"`
	Phone        *string          `gorm:"column:phone"`
	ProfileImage *string          `gorm:"column:profile_image"`
	BirthDate    *time.Time       `gorm:"column:birth_date"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
