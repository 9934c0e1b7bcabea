package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
)

// Repository provides persistence for catalog games.
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

// Create persists a new game.
func (r *Repository) Create(ctx context.Context, game *models.Game) (*models.Game, error) {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

// Update saves the mutated game row.
func (r *Repository) Update(ctx context.Context, game *models.Game) (*models.Game, error) {
	if err := r.db.WithContext(ctx).Save(game).Error; err != nil {
		return nil, err
	}
	return game, nil
}

// Delete removes the game row.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Game{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "game not found")
	}
	return nil
}

// FindByID loads a game by primary key.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := r.db.WithContext(ctx).First(&game, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "game not found")
		}
		return nil, err
	}
	return &game, nil
}

// FindByIDs loads the games matching the provided ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []uint) ([]models.Game, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var games []models.Game
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// ListAll returns every game ordered by creation time, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// ListActive returns only games buyers may see.
func (r *Repository) ListActive(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := r.db.WithContext(ctx).
		Where("status = ?", enums.GameStatusActive).
		Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}
