package dto

import (
	"github.com/quickedu/checkout/internal/domain/model"
)

// CheckoutRequest selects what to pay for. When Course is present a single
// course is bought directly; otherwise the whole cart is checked out.
type CheckoutRequest struct {
	Course *model.CartItem `json:"course,omitempty"`
	Phone  string          `json:"phone,omitempty"`
}

// CheckoutOptions is what the UI needs to open the payment widget.
type CheckoutOptions struct {
	PaymentSessionID string `json:"paymentSessionId"`
	ReturnURL        string `json:"returnUrl"`
	Mode             string `json:"mode"`
}

// CheckoutResponse carries the recorded order and widget options.
type CheckoutResponse struct {
	OrderID        string          `json:"order_id"`
	GatewayOrderID string          `json:"cf_order_id"`
	Checkout       CheckoutOptions `json:"checkout"`
}

// PaymentReturnResponse reports the reconciled outcome after the widget
// round trip.
type PaymentReturnResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Success bool   `json:"success"`
}
