package cart

import "github.com/shopspring/decimal"

// CartItemDTO is one cart line with the game snapshot captured when the item
// was added.
type CartItemDTO struct {
	GameID     uint    `json:"game_id"`
	Title      string  `json:"title"`
	CoverImage string  `json:"cover_image"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
}

// CartDTO is the full cart payload. Total and ItemCount are recomputed on
// every read; they are never stored.
type CartDTO struct {
	Items     []CartItemDTO `json:"items"`
	Total     float64       `json:"total"`
	ItemCount int           `json:"item_count"`
}

// Line is the minimal cart content checkout needs; prices are recomputed
// server-side from the catalog at order time.
type Line struct {
	GameID   uint
	Quantity int
}

func newCartDTO(snap snapshot) *CartDTO {
	dto := &CartDTO{Items: make([]CartItemDTO, 0, len(snap.Items))}
	total := decimal.Zero
	for _, item := range snap.Items {
		subtotal := decimal.NewFromFloat(item.UnitPrice).
			Mul(decimal.NewFromInt(int64(item.Quantity))).
			Round(2)
		subtotalF, _ := subtotal.Float64()
		dto.Items = append(dto.Items, CartItemDTO{
			GameID:     item.GameID,
			Title:      item.Title,
			CoverImage: item.CoverImage,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			Subtotal:   subtotalF,
		})
		total = total.Add(subtotal)
		dto.ItemCount += item.Quantity
	}
	totalF, _ := total.Round(2).Float64()
	dto.Total = totalF
	return dto
}
