package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pixelkeys/pixelkeys-backend/api/responses"
	"github.com/pixelkeys/pixelkeys-backend/internal/payments"
	"github.com/pixelkeys/pixelkeys-backend/pkg/logger"
)

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PaymentCallback classifies the redirect the gateway sends the buyer back
// with. It never mutates order state; the storefront polls the orders API for
// that.
func PaymentCallback(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")
		responses.WriteSuccess(w, map[string]string{
			"state": payments.ClassifyCallback(status).String(),
		})
	}
}

// PaymentWebhook handles gateway payment notifications. Mercado Pago sends
// the payment id either as query parameters or in a JSON body depending on
// the notification channel.
func PaymentWebhook(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paymentID, ok := extractPaymentID(r)
		if !ok {
			// Non-payment topics (merchant orders, chargebacks) are
			// acknowledged so the gateway stops retrying.
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}

		// Dependency failures get a 5xx so the gateway retries later.
		if err := svc.ProcessWebhook(r.Context(), paymentID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "processed"})
	}
}

func extractPaymentID(r *http.Request) (int, bool) {
	q := r.URL.Query()
	topic := q.Get("type")
	if topic == "" {
		topic = q.Get("topic")
	}
	if raw := q.Get("data.id"); raw != "" && topic == "payment" {
		return parsePaymentID(raw)
	}
	if raw := q.Get("id"); raw != "" && topic == "payment" {
		return parsePaymentID(raw)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		return 0, false
	}
	var payload webhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, false
	}
	if payload.Type != "payment" {
		return 0, false
	}
	return parsePaymentID(payload.Data.ID)
}

func parsePaymentID(raw string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
