package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

// Game represents a storefront catalog entry. Category may hold several
// comma-joined tags; screenshots and platforms are stored as JSON so the
// schema works on both Postgres and SQLite.
type Game struct {
	ID          uint             `gorm:"column:id;primaryKey;autoIncrement"`
	Title       string           `gorm:"column:title;not null"`
	Description string           `gorm:"column:description;not null"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Discount    int              `gorm:"column:discount;not null;default:0"`
	Inventory   int              `gorm:"column:inventory;not null;default:0"`
	Category    string           `gorm:"column:category;not null"`
	CoverImage  string           `gorm:"column:cover_image;not null"`
	Screenshots []string         `gorm:"column:screenshots;serializer:json"`
	Platform    []string         `gorm:"column:platform;serializer:json"`
	Status      enums.GameStatus `gorm:"column:status;not null;default:0"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// FinalPrice applies the discount percentage to the base price, rounded to
// two decimal places. A zero discount returns the base price unchanged.
func (g Game) FinalPrice() decimal.Decimal {
	if g.Discount <= 0 {
		return g.Price.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - g.Discount)).Div(decimal.NewFromInt(100))
	return g.Price.Mul(factor).Round(2)
}
