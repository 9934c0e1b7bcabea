package keys

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
)

// Service exposes the admin license-key inventory surface.
type Service interface {
	ListKeys(ctx context.Context) ([]KeyDTO, error)
	CreateKeys(ctx context.Context, input CreateKeysInput) ([]KeyDTO, error)
	DeleteKey(ctx context.Context, id uint) error
}

// CreateKeysInput holds a batch of key strings for one game.
type CreateKeysInput struct {
	GameID uint
	Keys   []string
}

type gameGetter interface {
	FindByID(ctx context.Context, id uint) (*models.Game, error)
}

type service struct {
	repo  *Repository
	games gameGetter
}

// NewService constructs a key inventory service instance.
func NewService(repo *Repository, games gameGetter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("key repository required")
	}
	if games == nil {
		return nil, fmt.Errorf("game repository required")
	}
	return &service{repo: repo, games: games}, nil
}

// ListKeys returns the full inventory.
func (s *service) ListKeys(ctx context.Context) ([]KeyDTO, error) {
	keys, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newKeyDTOs(keys), nil
}

// CreateKeys inserts a batch of keys for one game, denormalizing the title.
// Duplicate key strings, within the batch or against the table, are rejected.
func (s *service) CreateKeys(ctx context.Context, input CreateKeysInput) ([]KeyDTO, error) {
	if len(input.Keys) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one key is required")
	}

	game, err := s.games.FindByID(ctx, input.GameID)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	batch := make([]models.GameKey, 0, len(input.Keys))
	for _, raw := range input.Keys {
		key := strings.TrimSpace(raw)
		if key == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "key strings cannot be empty")
		}
		if _, dup := seen[key]; dup {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate key %q in batch", key))
		}
		seen[key] = struct{}{}
		batch = append(batch, models.GameKey{
			GameID:    game.ID,
			GameTitle: game.Title,
			Key:       key,
			Status:    enums.KeyStatusAvailable,
		})
	}

	created, err := s.repo.CreateBatch(ctx, batch)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "one or more keys already exist")
		}
		return nil, err
	}
	return newKeyDTOs(created), nil
}

// DeleteKey removes an unassigned key. Keys already delivered to a buyer are
// immutable.
func (s *service) DeleteKey(ctx context.Context, id uint) error {
	key, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if key.Status == enums.KeyStatusAssigned {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "assigned keys cannot be deleted")
	}
	return s.repo.Delete(ctx, id)
}
