package catalog

import (
	"time"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
)

// GameDTO is the catalog payload returned to clients. FinalPrice is the
// discounted price buyers actually pay.
type GameDTO struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Discount    int       `json:"discount"`
	FinalPrice  float64   `json:"final_price"`
	Inventory   int       `json:"inventory"`
	Category    string    `json:"category"`
	CoverImage  string    `json:"cover_image"`
	Screenshots []string  `json:"screenshots"`
	Platform    []string  `json:"platform"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GameListDTO bundles a filtered listing with the category facets derived
// from the full active set.
type GameListDTO struct {
	Games      []GameDTO `json:"games"`
	Categories []string  `json:"categories"`
}

// NewGameDTO builds a DTO from the persisted model.
func NewGameDTO(game *models.Game) *GameDTO {
	price, _ := game.Price.Float64()
	finalPrice, _ := game.FinalPrice().Float64()
	return &GameDTO{
		ID:          game.ID,
		Title:       game.Title,
		Description: game.Description,
		Price:       price,
		Discount:    game.Discount,
		FinalPrice:  finalPrice,
		Inventory:   game.Inventory,
		Category:    game.Category,
		CoverImage:  game.CoverImage,
		Screenshots: append([]string{}, game.Screenshots...),
		Platform:    append([]string{}, game.Platform...),
		Status:      int(game.Status),
		CreatedAt:   game.CreatedAt,
		UpdatedAt:   game.UpdatedAt,
	}
}

func newGameListDTO(games []models.Game, categories []string) *GameListDTO {
	dtos := make([]GameDTO, 0, len(games))
	for i := range games {
		dtos = append(dtos, *NewGameDTO(&games[i]))
	}
	return &GameListDTO{Games: dtos, Categories: categories}
}
