package keys

import (
	"time"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
)

// KeyDTO is the admin-facing key inventory payload.
type KeyDTO struct {
	ID        uint      `json:"id"`
	GameID    uint      `json:"game_id"`
	GameTitle string    `json:"game_title"`
	Key       string    `json:"key"`
	Status    int       `json:"status"`
	OrderID   *uint     `json:"order_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewKeyDTO builds a DTO from the persisted model.
func NewKeyDTO(key *models.GameKey) *KeyDTO {
	return &KeyDTO{
		ID:        key.ID,
		GameID:    key.GameID,
		GameTitle: key.GameTitle,
		Key:       key.Key,
		Status:    int(key.Status),
		OrderID:   key.OrderID,
		CreatedAt: key.CreatedAt,
	}
}

func newKeyDTOs(keys []models.GameKey) []KeyDTO {
	dtos := make([]KeyDTO, 0, len(keys))
	for i := range keys {
		dtos = append(dtos, *NewKeyDTO(&keys[i]))
	}
	return dtos
}
