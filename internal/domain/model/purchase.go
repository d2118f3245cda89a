package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus describes purchase lifecycle.
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "PENDING"
	PurchaseStatusCompleted PurchaseStatus = "COMPLETED"
	PurchaseStatusFailed    PurchaseStatus = "FAILED"
)

// IsTerminal reports whether the status can no longer change.
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseStatusCompleted || s == PurchaseStatusFailed
}

// PurchaseItem is one course line inside a purchase.
type PurchaseItem struct {
	CourseID string
	Title    string
	Price    decimal.Decimal
}

// Purchase is the local ledger entry tracking one checkout attempt.
// FromCart marks multi-item cart checkouts; the reconciler clears the cart
// only for those.
type Purchase struct {
	OrderID        string
	GatewayOrderID string
	UserID         string
	Items          []PurchaseItem
	TotalAmount    decimal.Decimal
	Currency       string
	Status         PurchaseStatus
	FromCart       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentOutcome is the canonical verification result.
type PaymentOutcome string

const (
	OutcomePaid    PaymentOutcome = "PAID"
	OutcomeNotPaid PaymentOutcome = "NOT_PAID"
)
