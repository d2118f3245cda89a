package handlers

import (
	"context"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/app"
	"github.com/quickedu/checkout/internal/domain/model"
)

// facadeStub implements Facade with overridable functions. Unset functions
// return benign defaults.
type facadeStub struct {
	relayCreateOrderFn func(ctx context.Context, payload []byte) (int, []byte, error)
	relayFetchOrderFn  func(ctx context.Context, orderID string) (int, []byte, error)

	cartItemsFn      func(ctx context.Context, userID string) ([]model.CartItem, error)
	addToCartFn      func(ctx context.Context, userID string, item model.CartItem) (bool, error)
	removeFromCartFn func(ctx context.Context, userID, courseID string) error
	clearCartFn      func(ctx context.Context, userID string) error
	cartTotalsFn     func(ctx context.Context, userID string) (model.CartTotals, error)
	cartCountFn      func(ctx context.Context, userID string) (int, error)

	checkoutCartFn  func(ctx context.Context, identity *model.Identity, phone string) (*app.CheckoutResult, error)
	buyCourseFn     func(ctx context.Context, identity *model.Identity, item model.CartItem, phone string) (*app.CheckoutResult, error)
	confirmReturnFn func(ctx context.Context, identity *model.Identity, orderID string) (*model.Purchase, error)

	purchasesFn    func(ctx context.Context, userID string) ([]model.Purchase, error)
	entitlementsFn func(ctx context.Context, userID string) ([]string, error)
}

var _ Facade = (*facadeStub)(nil)

func defaultResult() *app.CheckoutResult {
	return &app.CheckoutResult{
		Session: &model.OrderSession{},
		Options: &cashfree.CheckoutOptions{},
	}
}

func (s *facadeStub) RelayCreateOrder(ctx context.Context, payload []byte) (int, []byte, error) {
	if s.relayCreateOrderFn != nil {
		return s.relayCreateOrderFn(ctx, payload)
	}
	return 200, []byte(`{}`), nil
}

func (s *facadeStub) RelayFetchOrder(ctx context.Context, orderID string) (int, []byte, error) {
	if s.relayFetchOrderFn != nil {
		return s.relayFetchOrderFn(ctx, orderID)
	}
	return 200, []byte(`{}`), nil
}

func (s *facadeStub) CartItems(ctx context.Context, userID string) ([]model.CartItem, error) {
	if s.cartItemsFn != nil {
		return s.cartItemsFn(ctx, userID)
	}
	return nil, nil
}

func (s *facadeStub) AddToCart(ctx context.Context, userID string, item model.CartItem) (bool, error) {
	if s.addToCartFn != nil {
		return s.addToCartFn(ctx, userID, item)
	}
	return true, nil
}

func (s *facadeStub) RemoveFromCart(ctx context.Context, userID, courseID string) error {
	if s.removeFromCartFn != nil {
		return s.removeFromCartFn(ctx, userID, courseID)
	}
	return nil
}

func (s *facadeStub) ClearCart(ctx context.Context, userID string) error {
	if s.clearCartFn != nil {
		return s.clearCartFn(ctx, userID)
	}
	return nil
}

func (s *facadeStub) CartTotals(ctx context.Context, userID string) (model.CartTotals, error) {
	if s.cartTotalsFn != nil {
		return s.cartTotalsFn(ctx, userID)
	}
	return model.CartTotals{}, nil
}

func (s *facadeStub) CartCount(ctx context.Context, userID string) (int, error) {
	if s.cartCountFn != nil {
		return s.cartCountFn(ctx, userID)
	}
	return 0, nil
}

func (s *facadeStub) CheckoutCart(ctx context.Context, identity *model.Identity, phone string) (*app.CheckoutResult, error) {
	if s.checkoutCartFn != nil {
		return s.checkoutCartFn(ctx, identity, phone)
	}
	return defaultResult(), nil
}

func (s *facadeStub) BuyCourse(ctx context.Context, identity *model.Identity, item model.CartItem, phone string) (*app.CheckoutResult, error) {
	if s.buyCourseFn != nil {
		return s.buyCourseFn(ctx, identity, item, phone)
	}
	return defaultResult(), nil
}

func (s *facadeStub) ConfirmReturn(ctx context.Context, identity *model.Identity, orderID string) (*model.Purchase, error) {
	if s.confirmReturnFn != nil {
		return s.confirmReturnFn(ctx, identity, orderID)
	}
	return &model.Purchase{OrderID: orderID}, nil
}

func (s *facadeStub) Purchases(ctx context.Context, userID string) ([]model.Purchase, error) {
	if s.purchasesFn != nil {
		return s.purchasesFn(ctx, userID)
	}
	return nil, nil
}

func (s *facadeStub) Entitlements(ctx context.Context, userID string) ([]string, error) {
	if s.entitlementsFn != nil {
		return s.entitlementsFn(ctx, userID)
	}
	return nil, nil
}
