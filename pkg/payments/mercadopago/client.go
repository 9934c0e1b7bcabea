package mercadopago

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sdkconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/pixelkeys/pixelkeys-backend/pkg/config"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
)

const orderReferencePrefix = "order-"

var (
	errAccessTokenRequired = errors.New("mercado pago access token is required")
	errNoInitPoint         = errors.New("mercado pago preference has no init point")
)

type preferenceCreator interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// Client wraps the Mercado Pago SDK surface the storefront uses: creating
// checkout preferences and fetching payments referenced by webhooks.
type Client struct {
	preferences     preferenceCreator
	payments        paymentGetter
	currencyID      string
	callbackBaseURL string
	webhookURL      string
}

// PreferenceItem is one checkout line sent to the gateway.
type PreferenceItem struct {
	GameID    uint
	Title     string
	Quantity  int
	UnitPrice float64
}

// CheckoutPreference is the subset of the gateway response callers need.
type CheckoutPreference struct {
	ID        string
	InitPoint string
}

// PaymentInfo carries the fields webhook processing inspects.
type PaymentInfo struct {
	ID                int
	Status            string
	ExternalReference string
}

// NewClient initializes the Mercado Pago SDK once with the configured token.
func NewClient(ctx context.Context, cfg config.MercadoPagoConfig, logg *logger.Logger) (*Client, error) {
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errAccessTokenRequired
	}

	sdkCfg, err := sdkconfig.New(token)
	if err != nil {
		return nil, fmt.Errorf("mercado pago config: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "mercado pago client initialized")
	}

	return &Client{
		preferences:     preference.NewClient(sdkCfg),
		payments:        payment.NewClient(sdkCfg),
		currencyID:      cfg.CurrencyID,
		callbackBaseURL: strings.TrimRight(cfg.CallbackBaseURL, "/"),
		webhookURL:      cfg.WebhookURL,
	}, nil
}

// CreatePreference registers a checkout preference for the order and returns
// the hosted payment link.
func (c *Client) CreatePreference(ctx context.Context, orderID uint, items []PreferenceItem) (*CheckoutPreference, error) {
	if orderID == 0 {
		return nil, fmt.Errorf("order id is required")
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	request := preference.Request{
		Items:             make([]preference.ItemRequest, 0, len(items)),
		ExternalReference: OrderReference(orderID),
		NotificationURL:   c.webhookURL,
	}
	for _, item := range items {
		request.Items = append(request.Items, preference.ItemRequest{
			ID:         strconv.FormatUint(uint64(item.GameID), 10),
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			CurrencyID: c.currencyID,
		})
	}
	if c.callbackBaseURL != "" {
		callback := c.callbackBaseURL + "/purchase/callback"
		request.BackURLs = &preference.BackURLsRequest{
			Success: callback,
			Pending: callback,
			Failure: callback,
		}
	}

	resp, err := c.preferences.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	if resp.InitPoint == "" {
		return nil, errNoInitPoint
	}

	return &CheckoutPreference{ID: resp.ID, InitPoint: resp.InitPoint}, nil
}

// GetPayment fetches the payment referenced by a webhook notification.
func (c *Client) GetPayment(ctx context.Context, paymentID int) (*PaymentInfo, error) {
	if paymentID <= 0 {
		return nil, fmt.Errorf("payment id must be positive")
	}
	resp, err := c.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", paymentID, err)
	}
	return &PaymentInfo{
		ID:                resp.ID,
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}

// OrderReference builds the external reference embedded in a preference.
func OrderReference(orderID uint) string {
	return orderReferencePrefix + strconv.FormatUint(uint64(orderID), 10)
}

// ParseOrderReference extracts the order ID from an external reference.
func ParseOrderReference(reference string) (uint, error) {
	trimmed := strings.TrimSpace(reference)
	if !strings.HasPrefix(trimmed, orderReferencePrefix) {
		return 0, fmt.Errorf("unrecognized external reference %q", reference)
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(trimmed, orderReferencePrefix), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("unrecognized external reference %q", reference)
	}
	return uint(id), nil
}
