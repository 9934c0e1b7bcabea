package models

import (
	"time"

	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

// GameKey is one license key in inventory. OrderID is set the moment the key
// is assigned to a completed order and never cleared afterwards.
type GameKey struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	GameID    uint            `gorm:"column:game_id;not null;index"`
	GameTitle string          `gorm:"column:game_title;not null"`
	Key       string          `gorm:"column:key_code;not null;uniqueIndex"`
	Status    enums.KeyStatus `gorm:"column:status;not null;default:0"`
	OrderID   *uint           `gorm:"column:order_id;index"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
