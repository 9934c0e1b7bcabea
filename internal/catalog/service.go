package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
)

// Service exposes catalog browsing plus the admin game management surface.
type Service interface {
	ListActive(ctx context.Context, filters Filters) (*GameListDTO, error)
	GetGame(ctx context.Context, id uint) (*GameDTO, error)
	ListAll(ctx context.Context) ([]GameDTO, error)
	CreateGame(ctx context.Context, input CreateGameInput) (*GameDTO, error)
	UpdateGame(ctx context.Context, id uint, input UpdateGameInput) (*GameDTO, error)
	DeleteGame(ctx context.Context, id uint) error
	UpdateStatus(ctx context.Context, id uint, status enums.GameStatus) (*GameDTO, error)
}

// CreateGameInput holds the validated payload to create a game.
type CreateGameInput struct {
	Title       string
	Description string
	Price       float64
	Discount    int
	Inventory   int
	Category    string
	CoverImage  string
	Screenshots []string
	Platform    []string
}

// UpdateGameInput holds optional mutation values for a game.
type UpdateGameInput struct {
	Title       *string
	Description *string
	Price       *float64
	Discount    *int
	Inventory   *int
	Category    *string
	CoverImage  *string
	Screenshots *[]string
	Platform    *[]string
}

type gameRepo interface {
	Create(ctx context.Context, game *models.Game) (*models.Game, error)
	Update(ctx context.Context, game *models.Game) (*models.Game, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*models.Game, error)
	ListAll(ctx context.Context) ([]models.Game, error)
	ListActive(ctx context.Context) ([]models.Game, error)
}

type service struct {
	repo gameRepo
}

// NewService constructs a catalog service instance.
func NewService(repo gameRepo) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("game repository required")
	}
	return &service{repo: repo}, nil
}

// ListActive returns the buyer-facing listing: filters applied to the active
// set, facets derived from the full active set so narrowing a filter never
// hides categories.
func (s *service) ListActive(ctx context.Context, filters Filters) (*GameListDTO, error) {
	games, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	categories := Categories(games)
	return newGameListDTO(ApplyFilters(games, filters), categories), nil
}

// GetGame returns one active game. Blocked games are hidden from buyers.
func (s *service) GetGame(ctx context.Context, id uint) (*GameDTO, error) {
	game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.Status != enums.GameStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "game not found")
	}
	return NewGameDTO(game), nil
}

// ListAll returns every game for the admin back office.
func (s *service) ListAll(ctx context.Context) ([]GameDTO, error) {
	games, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]GameDTO, 0, len(games))
	for i := range games {
		dtos = append(dtos, *NewGameDTO(&games[i]))
	}
	return dtos, nil
}

// CreateGame persists a new catalog entry in active status.
func (s *service) CreateGame(ctx context.Context, input CreateGameInput) (*GameDTO, error) {
	if err := validateGameFields(input.Title, input.Price, input.Discount, input.Inventory); err != nil {
		return nil, err
	}

	game := &models.Game{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       decimal.NewFromFloat(input.Price).Round(2),
		Discount:    input.Discount,
		Inventory:   input.Inventory,
		Category:    strings.TrimSpace(input.Category),
		CoverImage:  input.CoverImage,
		Screenshots: input.Screenshots,
		Platform:    input.Platform,
		Status:      enums.GameStatusActive,
	}
	created, err := s.repo.Create(ctx, game)
	if err != nil {
		return nil, err
	}
	return NewGameDTO(created), nil
}

// UpdateGame applies the provided fields to an existing game.
func (s *service) UpdateGame(ctx context.Context, id uint, input UpdateGameInput) (*GameDTO, error) {
	game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		game.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		game.Description = *input.Description
	}
	if input.Price != nil {
		game.Price = decimal.NewFromFloat(*input.Price).Round(2)
	}
	if input.Discount != nil {
		game.Discount = *input.Discount
	}
	if input.Inventory != nil {
		game.Inventory = *input.Inventory
	}
	if input.Category != nil {
		game.Category = strings.TrimSpace(*input.Category)
	}
	if input.CoverImage != nil {
		game.CoverImage = *input.CoverImage
	}
	if input.Screenshots != nil {
		game.Screenshots = *input.Screenshots
	}
	if input.Platform != nil {
		game.Platform = *input.Platform
	}

	price, _ := game.Price.Float64()
	if err := validateGameFields(game.Title, price, game.Discount, game.Inventory); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, game)
	if err != nil {
		return nil, err
	}
	return NewGameDTO(updated), nil
}

// DeleteGame removes the game from the catalog.
func (s *service) DeleteGame(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// UpdateStatus flips a game between active and blocked.
func (s *service) UpdateStatus(ctx context.Context, id uint, status enums.GameStatus) (*GameDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid game status")
	}
	game, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	game.Status = status
	updated, err := s.repo.Update(ctx, game)
	if err != nil {
		return nil, err
	}
	return NewGameDTO(updated), nil
}

func validateGameFields(title string, price float64, discount, inventory int) error {
	if strings.TrimSpace(title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if price < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if discount < 0 || discount > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100")
	}
	if inventory < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "inventory cannot be negative")
	}
	return nil
}
