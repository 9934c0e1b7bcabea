package mercadopago

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

type fakePreferenceAPI struct {
	lastRequest preference.Request
	response    *preference.Response
	err         error
}

func (f *fakePreferenceAPI) Create(_ context.Context, request preference.Request) (*preference.Response, error) {
	f.lastRequest = request
	return f.response, f.err
}

type fakePaymentAPI struct {
	response *payment.Response
	err      error
}

func (f *fakePaymentAPI) Get(_ context.Context, _ int) (*payment.Response, error) {
	return f.response, f.err
}

func TestCreatePreferenceBuildsRequest(t *testing.T) {
	prefs := &fakePreferenceAPI{
		response: &preference.Response{ID: "pref-1", InitPoint: "https://mp.example/init"},
	}
	client := &Client{
		preferences:     prefs,
		currencyID:      "BRL",
		callbackBaseURL: "https://store.example",
		webhookURL:      "https://api.example/webhook",
	}

	result, err := client.CreatePreference(context.Background(), 12, []PreferenceItem{
		{GameID: 3, Title: "Sample Game", Quantity: 2, UnitPrice: 49.90},
	})
	if err != nil {
		t.Fatalf("create preference: %v", err)
	}
	if result.ID != "pref-1" || result.InitPoint != "https://mp.example/init" {
		t.Fatalf("unexpected result %+v", result)
	}

	req := prefs.lastRequest
	if req.ExternalReference != "order-12" {
		t.Fatalf("expected external reference order-12, got %q", req.ExternalReference)
	}
	if req.NotificationURL != "https://api.example/webhook" {
		t.Fatalf("unexpected notification url %q", req.NotificationURL)
	}
	if len(req.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(req.Items))
	}
	item := req.Items[0]
	if item.ID != "3" || item.Quantity != 2 || item.UnitPrice != 49.90 || item.CurrencyID != "BRL" {
		t.Fatalf("unexpected item %+v", item)
	}
	if req.BackURLs == nil || req.BackURLs.Success != "https://store.example/purchase/callback" {
		t.Fatalf("unexpected back urls %+v", req.BackURLs)
	}
}

func TestCreatePreferenceRequiresInitPoint(t *testing.T) {
	client := &Client{preferences: &fakePreferenceAPI{response: &preference.Response{ID: "pref-2"}}}

	_, err := client.CreatePreference(context.Background(), 1, []PreferenceItem{{GameID: 1, Title: "X", Quantity: 1, UnitPrice: 1}})
	if !errors.Is(err, errNoInitPoint) {
		t.Fatalf("expected errNoInitPoint, got %v", err)
	}
}

func TestCreatePreferenceValidatesInput(t *testing.T) {
	client := &Client{preferences: &fakePreferenceAPI{}}

	if _, err := client.CreatePreference(context.Background(), 0, []PreferenceItem{{GameID: 1, Title: "X", Quantity: 1, UnitPrice: 1}}); err == nil {
		t.Fatal("expected error for zero order id")
	}
	if _, err := client.CreatePreference(context.Background(), 1, nil); err == nil {
		t.Fatal("expected error for empty items")
	}
}

func TestGetPayment(t *testing.T) {
	client := &Client{payments: &fakePaymentAPI{
		response: &payment.Response{ID: 555, Status: "approved", ExternalReference: "order-12"},
	}}

	info, err := client.GetPayment(context.Background(), 555)
	if err != nil {
		t.Fatalf("get payment: %v", err)
	}
	if info.ID != 555 || info.Status != "approved" || info.ExternalReference != "order-12" {
		t.Fatalf("unexpected payment info %+v", info)
	}

	if _, err := client.GetPayment(context.Background(), 0); err == nil {
		t.Fatal("expected error for non-positive payment id")
	}
}

func TestParseOrderReference(t *testing.T) {
	t.Parallel()

	id, err := ParseOrderReference("order-42")
	if err != nil || id != 42 {
		t.Fatalf("ParseOrderReference = %d, %v", id, err)
	}

	for _, bad := range []string{"", "order-", "order-0", "invoice-42", "order-abc"} {
		if _, err := ParseOrderReference(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
