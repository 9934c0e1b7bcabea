package orders

import (
	"time"

	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

// OrderItemDTO is one purchased line with prices frozen at checkout.
type OrderItemDTO struct {
	GameID    uint    `json:"game_id"`
	GameTitle string  `json:"game_title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`
}

// OrderDTO is the order payload. License keys appear only once the order is
// completed.
type OrderDTO struct {
	ID          uint           `json:"id"`
	UserID      uint           `json:"user_id"`
	Total       float64        `json:"total"`
	Status      int            `json:"status"`
	PaymentLink *string        `json:"payment_link,omitempty"`
	Items       []OrderItemDTO `json:"items"`
	Keys        []string       `json:"keys,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// OrderListDTO is a cursor-paginated page of orders.
type OrderListDTO struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// NewOrderDTO builds a DTO from the persisted model.
func NewOrderDTO(order *models.Order) *OrderDTO {
	total, _ := order.Total.Float64()
	dto := &OrderDTO{
		ID:          order.ID,
		UserID:      order.UserID,
		Total:       total,
		Status:      int(order.Status),
		PaymentLink: order.PaymentLink,
		Items:       make([]OrderItemDTO, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	for _, item := range order.Items {
		unitPrice, _ := item.UnitPrice.Float64()
		subtotal, _ := item.Subtotal().Float64()
		dto.Items = append(dto.Items, OrderItemDTO{
			GameID:    item.GameID,
			GameTitle: item.GameTitle,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
	}
	if order.Status == enums.OrderStatusCompleted {
		for _, key := range order.Keys {
			dto.Keys = append(dto.Keys, key.Key)
		}
	}
	return dto
}
