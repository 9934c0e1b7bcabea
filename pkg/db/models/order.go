package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

// Order snapshots a checkout. Total is computed once at creation from the
// item subtotals; consumers never recompute it.
type Order struct {
	ID           uint              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID       uint              `gorm:"column:user_id;not null;index"`
	Total        decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:0"`
	PaymentLink  *string           `gorm:"column:payment_link"`
	PreferenceID *string           `gorm:"column:preference_id;index"`
	Items        []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Keys         []GameKey         `gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem captures one line of an order with the title and unit price
// frozen at purchase time.
type OrderItem struct {
	ID        uint            `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID   uint            `gorm:"column:order_id;not null;index"`
	GameID    uint            `gorm:"column:game_id;not null"`
	GameTitle string          `gorm:"column:game_title;not null"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
}

// Subtotal returns unit price times quantity.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}
