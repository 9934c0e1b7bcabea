package cart

import (
	"context"
	"fmt"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
)

// Service exposes per-user cart operations.
type Service interface {
	Get(ctx context.Context, userID uint) (*CartDTO, error)
	AddItem(ctx context.Context, userID, gameID uint, quantity int) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, gameID uint, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, gameID uint) (*CartDTO, error)
	Clear(ctx context.Context, userID uint) error
	Lines(ctx context.Context, userID uint) ([]Line, error)
}

type gameGetter interface {
	FindByID(ctx context.Context, id uint) (*models.Game, error)
}

type service struct {
	store *Store
	games gameGetter
}

// NewService constructs a cart service instance.
func NewService(store *Store, games gameGetter) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if games == nil {
		return nil, fmt.Errorf("game repository required")
	}
	return &service{store: store, games: games}, nil
}

// Get returns the cart with totals recomputed.
func (s *service) Get(ctx context.Context, userID uint) (*CartDTO, error) {
	return newCartDTO(s.store.load(ctx, userID)), nil
}

// AddItem puts the game in the cart, incrementing the quantity when the game
// is already present.
func (s *service) AddItem(ctx context.Context, userID, gameID uint, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	game, err := s.games.FindByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != enums.GameStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "game is not available for purchase")
	}

	snap := s.store.load(ctx, userID)
	found := false
	for i := range snap.Items {
		if snap.Items[i].GameID == gameID {
			snap.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		unitPrice, _ := game.FinalPrice().Float64()
		snap.Items = append(snap.Items, snapshotItem{
			GameID:     game.ID,
			Title:      game.Title,
			CoverImage: game.CoverImage,
			UnitPrice:  unitPrice,
			Quantity:   quantity,
		})
	}

	if err := s.store.save(ctx, userID, snap); err != nil {
		return nil, err
	}
	return newCartDTO(snap), nil
}

// UpdateQuantity sets the quantity for a cart line. A quantity of zero or
// less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, userID, gameID uint, quantity int) (*CartDTO, error) {
	snap := s.store.load(ctx, userID)
	if quantity <= 0 {
		snap = removeLine(snap, gameID)
	} else {
		found := false
		for i := range snap.Items {
			if snap.Items[i].GameID == gameID {
				snap.Items[i].Quantity = quantity
				found = true
				break
			}
		}
		if !found {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "game is not in the cart")
		}
	}

	if err := s.store.save(ctx, userID, snap); err != nil {
		return nil, err
	}
	return newCartDTO(snap), nil
}

// RemoveItem deletes the cart line. Removing a game that is not in the cart
// is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, gameID uint) (*CartDTO, error) {
	snap := removeLine(s.store.load(ctx, userID), gameID)
	if err := s.store.save(ctx, userID, snap); err != nil {
		return nil, err
	}
	return newCartDTO(snap), nil
}

// Clear empties the cart.
func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.store.clear(ctx, userID)
}

// Lines returns the cart content for checkout.
func (s *service) Lines(ctx context.Context, userID uint) ([]Line, error) {
	snap := s.store.load(ctx, userID)
	lines := make([]Line, 0, len(snap.Items))
	for _, item := range snap.Items {
		lines = append(lines, Line{GameID: item.GameID, Quantity: item.Quantity})
	}
	return lines, nil
}

func removeLine(snap snapshot, gameID uint) snapshot {
	kept := snap.Items[:0]
	for _, item := range snap.Items {
		if item.GameID != gameID {
			kept = append(kept, item)
		}
	}
	snap.Items = kept
	return snap
}
