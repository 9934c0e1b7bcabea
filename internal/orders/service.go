package orders

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pixelkeys/pixelkeys-backend/internal/cart"
	"github.com/pixelkeys/pixelkeys-backend/internal/keys"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db"
	"github.com/pixelkeys/pixelkeys-backend/pkg/db/models"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
	"github.com/pixelkeys/pixelkeys-backend/pkg/metrics"
	"github.com/pixelkeys/pixelkeys-backend/pkg/pagination"
	"github.com/pixelkeys/pixelkeys-backend/pkg/payments/mercadopago"
)

// Service exposes checkout, order history, and admin order management.
type Service interface {
	Checkout(ctx context.Context, userID uint) (*OrderDTO, error)
	GetOrderForUser(ctx context.Context, userID, orderID uint) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uint) ([]OrderDTO, error)
	ListAll(ctx context.Context, params pagination.Params) (*OrderListDTO, error)
	UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus) (*OrderDTO, error)
}

type cartReader interface {
	Lines(ctx context.Context, userID uint) ([]cart.Line, error)
	Clear(ctx context.Context, userID uint) error
}

type gameLoader interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.Game, error)
}

type paymentGateway interface {
	CreatePreference(ctx context.Context, orderID uint, items []mercadopago.PreferenceItem) (*mercadopago.CheckoutPreference, error)
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	cart     cartReader
	games    gameLoader
	keys     *keys.Repository
	gateway  paymentGateway
	logg     *logger.Logger
	metrics  *metrics.HTTPMetrics
}

// NewService constructs an order service instance.
func NewService(
	repo *Repository,
	dbClient *db.Client,
	cartSvc cartReader,
	games gameLoader,
	keyRepo *keys.Repository,
	gateway paymentGateway,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if games == nil {
		return nil, fmt.Errorf("game repository required")
	}
	if keyRepo == nil {
		return nil, fmt.Errorf("key repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		cart:     cartSvc,
		games:    games,
		keys:     keyRepo,
		gateway:  gateway,
		logg:     logg,
		metrics:  httpMetrics,
	}, nil
}

// Checkout converts the caller's cart into a pending order with a hosted
// payment link. The order row, its items, and the payment link are committed
// atomically; the cart is cleared only after that commit succeeds, so a
// failed checkout leaves the cart untouched.
func (s *service) Checkout(ctx context.Context, userID uint) (*OrderDTO, error) {
	lines, err := s.cart.Lines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.GameID)
	}
	games, err := s.games.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Game, len(games))
	for i := range games {
		byID[games[i].ID] = &games[i]
	}

	order := &models.Order{
		UserID: userID,
		Status: enums.OrderStatusPending,
	}
	total := decimal.Zero
	prefItems := make([]mercadopago.PreferenceItem, 0, len(lines))
	for _, line := range lines {
		game, ok := byID[line.GameID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "a game in the cart no longer exists")
		}
		if game.Status != enums.GameStatusActive {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("%s is no longer available", game.Title))
		}
		available, err := s.keys.CountAvailable(ctx, game.ID)
		if err != nil {
			return nil, err
		}
		if available < int64(line.Quantity) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("not enough keys in stock for %s", game.Title))
		}

		unitPrice := game.FinalPrice()
		item := models.OrderItem{
			GameID:    game.ID,
			GameTitle: game.Title,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		}
		order.Items = append(order.Items, item)
		total = total.Add(item.Subtotal())

		unitPriceF, _ := unitPrice.Float64()
		prefItems = append(prefItems, mercadopago.PreferenceItem{
			GameID:    game.ID,
			Title:     game.Title,
			Quantity:  line.Quantity,
			UnitPrice: unitPriceF,
		})
	}
	order.Total = total.Round(2)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		pref, err := s.gateway.CreatePreference(ctx, order.ID, prefItems)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating payment preference")
		}
		order.PaymentLink = &pref.InitPoint
		order.PreferenceID = &pref.ID
		_, err = s.repo.WithTx(tx).Update(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncOrderEvent("created")

	// Best effort: the order and payment link already exist, a stale cart
	// snapshot expires on its own.
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logg.Warn(s.logg.WithOrderID(ctx, order.ID), "failed to clear cart after checkout")
	}

	return NewOrderDTO(order), nil
}

// GetOrderForUser returns one order, scoped to its owner.
func (s *service) GetOrderForUser(ctx context.Context, userID, orderID uint) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

// ListForUser returns the buyer's order history.
func (s *service) ListForUser(ctx context.Context, userID uint) ([]OrderDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewOrderDTO(&rows[i]))
	}
	return dtos, nil
}

// ListAll returns a cursor-paginated page for the admin back office.
func (s *service) ListAll(ctx context.Context, params pagination.Params) (*OrderListDTO, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListAll(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	result := &OrderListDTO{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	for i := range rows {
		result.Orders = append(result.Orders, *NewOrderDTO(&rows[i]))
	}
	return result, nil
}

// UpdateStatus transitions a pending order to completed or cancelled.
// Completion allocates available keys to every line item in the same
// transaction; a shortfall still completes the order with whatever keys
// could be attached. Terminal states are immutable.
func (s *service) UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus) (*OrderDTO, error) {
	if status != enums.OrderStatusCompleted && status != enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orders can only transition to completed or cancelled")
	}

	var updated *models.Order
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order status is final")
		}

		order.Status = status
		if _, err := repo.Update(ctx, order); err != nil {
			return err
		}

		if status == enums.OrderStatusCompleted {
			keyRepo := s.keys.WithTx(tx)
			for _, item := range order.Items {
				allocated, err := keyRepo.AllocateForOrder(ctx, order.ID, item.GameID, item.Quantity)
				if err != nil {
					return err
				}
				order.Keys = append(order.Keys, allocated...)
			}
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch status {
	case enums.OrderStatusCompleted:
		s.metrics.IncOrderEvent("completed")
	case enums.OrderStatusCancelled:
		s.metrics.IncOrderEvent("cancelled")
	}

	return NewOrderDTO(updated), nil
}
