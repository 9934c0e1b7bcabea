package keys

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
)

// Repository provides persistence for license key inventory.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateBatch inserts the provided keys in one statement.
func (r *Repository) CreateBatch(ctx context.Context, batch []models.GameKey) ([]models.GameKey, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	if err := r.db.WithContext(ctx).Create(&batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

// List returns the full key inventory, newest first.
func (r *Repository) List(ctx context.Context) ([]models.GameKey, error) {
	var keys []models.GameKey
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// FindByID loads one key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.GameKey, error) {
	var key models.GameKey
	if err := r.db.WithContext(ctx).First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "game key not found")
		}
		return nil, err
	}
	return &key, nil
}

// Delete removes the key row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.GameKey{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "game key not found")
	}
	return nil
}

// CountAvailable reports how many unassigned keys exist for the game.
func (r *Repository) CountAvailable(ctx context.Context, gameID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GameKey{}).
		Where("game_id = ? AND status = ?", gameID, enums.KeyStatusAvailable).
		Count(&count).Error
	return count, err
}

// AllocateForOrder marks up to count available keys for the game as assigned
// to the order and returns them. Allocating fewer than count keys is not an
// error; the caller decides how to treat a shortfall.
func (r *Repository) AllocateForOrder(ctx context.Context, orderID, gameID uint, count int) ([]models.GameKey, error) {
	if count <= 0 {
		return nil, nil
	}
	var available []models.GameKey
	if err := r.db.WithContext(ctx).
		Where("game_id = ? AND status = ?", gameID, enums.KeyStatusAvailable).
		Order("id ASC").
		Limit(count).
		Find(&available).Error; err != nil {
		return nil, err
	}
	if len(available) == 0 {
		return nil, nil
	}

	ids := make([]uint, 0, len(available))
	for i := range available {
		ids = append(ids, available[i].ID)
	}
	if err := r.db.WithContext(ctx).
		Model(&models.GameKey{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":   enums.KeyStatusAssigned,
			"order_id": orderID,
		}).Error; err != nil {
		return nil, err
	}

	for i := range available {
		available[i].Status = enums.KeyStatusAssigned
		id := orderID
		available[i].OrderID = &id
	}
	return available, nil
}

// ListByOrder returns the keys attached to an order.
func (r *Repository) ListByOrder(ctx context.Context, orderID uint) ([]models.GameKey, error) {
	var keys []models.GameKey
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
