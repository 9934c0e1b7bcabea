package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/pixelkeys/pixelkeys-backend/internal/orders"
	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
	pkgerrors "github.com/pixelkeys/pixelkeys-backend/pkg/errors"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
	"github.com/pixelkeys/pixelkeys-backend/pkg/metrics"
	"github.com/pixelkeys/pixelkeys-backend/pkg/payments/mercadopago"
)

// Gateway payment statuses that keep the order pending. Anything else that
// is not approved cancels it.
const (
	statusApproved  = "approved"
	statusPending   = "pending"
	statusInProcess = "in_process"
)

// Service processes payment gateway notifications.
type Service interface {
	ProcessWebhook(ctx context.Context, paymentID int) error
}

type paymentFetcher interface {
	GetPayment(ctx context.Context, paymentID int) (*mercadopago.PaymentInfo, error)
}

type orderUpdater interface {
	UpdateStatus(ctx context.Context, orderID uint, status enums.OrderStatus) (*orders.OrderDTO, error)
}

type eventDeduper interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	PaymentEventKey(paymentID string) string
}

type service struct {
	gateway  paymentFetcher
	orders   orderUpdater
	dedupe   eventDeduper
	eventTTL time.Duration
	logg     *logger.Logger
	metrics  *metrics.HTTPMetrics
}

// NewService constructs the webhook processing service.
func NewService(
	gateway paymentFetcher,
	orderSvc orderUpdater,
	dedupe eventDeduper,
	eventTTL time.Duration,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order service required")
	}
	if dedupe == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if eventTTL <= 0 {
		eventTTL = 720 * time.Hour
	}
	return &service{
		gateway:  gateway,
		orders:   orderSvc,
		dedupe:   dedupe,
		eventTTL: eventTTL,
		logg:     logg,
		metrics:  httpMetrics,
	}, nil
}

// ProcessWebhook fetches the notified payment from the gateway and applies it
// to the referenced order. Each payment id is applied at most once; replays
// and unknown references are acknowledged without side effects so the gateway
// stops retrying.
func (s *service) ProcessWebhook(ctx context.Context, paymentID int) error {
	if paymentID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment id must be positive")
	}

	info, err := s.gateway.GetPayment(ctx, paymentID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching payment")
	}
	ctx = s.logg.WithPaymentID(ctx, fmt.Sprintf("%d", info.ID))

	orderID, err := mercadopago.ParseOrderReference(info.ExternalReference)
	if err != nil {
		s.logg.Warn(ctx, "webhook references an unknown order, ignoring")
		s.metrics.IncPaymentEvent("unmatched")
		return nil
	}
	ctx = s.logg.WithOrderID(ctx, orderID)

	// Gateways keep notifying while the payment is in flight. Only terminal
	// statuses are recorded, so a pending notification can be re-inspected
	// later when the payment settles.
	if info.Status == statusPending || info.Status == statusInProcess {
		s.logg.Info(ctx, "payment still pending, leaving order untouched")
		s.metrics.IncPaymentEvent("pending")
		return nil
	}

	key := s.dedupe.PaymentEventKey(fmt.Sprintf("%d", info.ID))
	fresh, err := s.dedupe.SetNX(ctx, key, info.Status, s.eventTTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recording payment event")
	}
	if !fresh {
		s.logg.Info(ctx, "payment already processed, skipping")
		s.metrics.IncPaymentEvent("duplicate")
		return nil
	}

	target := enums.OrderStatusCancelled
	outcome := "rejected"
	if info.Status == statusApproved {
		target = enums.OrderStatusCompleted
		outcome = "approved"
	}

	if _, err := s.orders.UpdateStatus(ctx, orderID, target); err != nil {
		if appErr := pkgerrors.As(err); appErr != nil {
			switch appErr.Code() {
			case pkgerrors.CodeStateConflict:
				// Already settled through another event.
				s.logg.Info(ctx, "order already in a final status")
				s.metrics.IncPaymentEvent("duplicate")
				return nil
			case pkgerrors.CodeNotFound:
				s.logg.Warn(ctx, "webhook references a missing order, ignoring")
				s.metrics.IncPaymentEvent("unmatched")
				return nil
			}
		}
		// Transient failure: release the event mark so the gateway's retry
		// is not mistaken for a replay.
		if delErr := s.dedupe.Del(ctx, key); delErr != nil {
			s.logg.Error(ctx, "releasing payment event record", delErr)
		}
		return err
	}

	s.metrics.IncPaymentEvent(outcome)
	s.logg.Info(ctx, "payment applied to order")
	return nil
}
