package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/quickedu/checkout/internal/domain/errors"
	"github.com/quickedu/checkout/internal/domain/model"
)

// The gateway requires a phone number but checkout does not collect one.
const placeholderPhone = "9999999999"

const orderIDSuffixLen = 9

// OrderBuilder turns a course selection and an identity into a canonical
// order request. Pure construction, no side effects.
type OrderBuilder struct {
	currency      string
	returnURLBase string
	notifyURLBase string
}

// NewOrderBuilder constructs OrderBuilder with a fixed currency.
func NewOrderBuilder(currency, returnURLBase, notifyURLBase string) *OrderBuilder {
	return &OrderBuilder{
		currency:      currency,
		returnURLBase: returnURLBase,
		notifyURLBase: notifyURLBase,
	}
}

// Build creates an order request for the given items. The order ID is fresh
// on every call; no uniqueness check against prior orders is performed.
func (b *OrderBuilder) Build(identity *model.Identity, items []model.CartItem, phone string) (*model.OrderRequest, error) {
	if !identity.Valid() {
		return nil, domainErrors.ErrUnauthenticated
	}
	if len(items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}

	amount := decimal.Zero
	for _, item := range items {
		amount = amount.Add(item.Price)
	}
	if !amount.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}

	if phone == "" {
		phone = placeholderPhone
	}

	orderID := newOrderID()

	return &model.OrderRequest{
		OrderID:       orderID,
		Amount:        amount,
		Currency:      b.currency,
		CustomerID:    identity.UserID,
		CustomerName:  identity.Name,
		CustomerEmail: identity.Email,
		CustomerPhone: phone,
		ReturnURL:     fmt.Sprintf("%s/payment/success?order_id=%s", b.returnURLBase, orderID),
		NotifyURL:     fmt.Sprintf("%s/api/payment/webhook", b.notifyURLBase),
	}, nil
}

// PurchaseItems converts a selection into purchase record lines.
func PurchaseItems(items []model.CartItem) []model.PurchaseItem {
	out := make([]model.PurchaseItem, 0, len(items))
	for _, item := range items {
		out = append(out, model.PurchaseItem{
			CourseID: item.CourseID,
			Title:    item.Title,
			Price:    item.Price,
		})
	}
	return out
}

func newOrderID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:orderIDSuffixLen]
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), suffix)
}
