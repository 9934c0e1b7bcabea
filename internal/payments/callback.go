package payments

import (
	"strings"

	"github.com/pixelkeys/pixelkeys-backend/pkg/enums"
)

// ClassifyCallback maps the status token Mercado Pago appends to the buyer
// redirect onto the storefront's callback state. The redirect is advisory;
// order state only changes through webhook processing.
func ClassifyCallback(status string) enums.CallbackState {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved", "success":
		return enums.CallbackStateSuccess
	case "pending", "in_process":
		return enums.CallbackStatePending
	default:
		return enums.CallbackStateFailure
	}
}
