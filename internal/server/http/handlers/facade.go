package handlers

import (
	"context"

	"github.com/quickedu/checkout/internal/app"
	"github.com/quickedu/checkout/internal/domain/model"
)

// RelayFacade forwards raw gateway traffic for the relay endpoints.
type RelayFacade interface {
	RelayCreateOrder(ctx context.Context, payload []byte) (int, []byte, error)
	RelayFetchOrder(ctx context.Context, orderID string) (int, []byte, error)
}

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	CartItems(ctx context.Context, userID string) ([]model.CartItem, error)
	AddToCart(ctx context.Context, userID string, item model.CartItem) (bool, error)
	RemoveFromCart(ctx context.Context, userID, courseID string) error
	ClearCart(ctx context.Context, userID string) error
	CartTotals(ctx context.Context, userID string) (model.CartTotals, error)
	CartCount(ctx context.Context, userID string) (int, error)
}

// PaymentFacade covers checkout and payment confirmation.
type PaymentFacade interface {
	CheckoutCart(ctx context.Context, identity *model.Identity, phone string) (*app.CheckoutResult, error)
	BuyCourse(ctx context.Context, identity *model.Identity, item model.CartItem, phone string) (*app.CheckoutResult, error)
	ConfirmReturn(ctx context.Context, identity *model.Identity, orderID string) (*model.Purchase, error)
}

// HistoryFacade provides purchase history and ownership lookups.
type HistoryFacade interface {
	Purchases(ctx context.Context, userID string) ([]model.Purchase, error)
	Entitlements(ctx context.Context, userID string) ([]string, error)
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	RelayFacade
	CartFacade
	PaymentFacade
	HistoryFacade
}
