package app

import (
	"context"
	"time"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/domain/repository"
	"github.com/quickedu/checkout/internal/usecase"
)

// CheckoutResult is everything the UI needs after a checkout attempt: the
// recorded order plus the options to open the hosted payment widget.
type CheckoutResult struct {
	Session *model.OrderSession
	Options *cashfree.CheckoutOptions
}

// CheckoutFacade is the application entry point the HTTP layer and the
// background workers talk to.
type CheckoutFacade struct {
	cart          *usecase.CartUseCase
	builder       *usecase.OrderBuilder
	verifier      *usecase.Verifier
	reconciler    *usecase.Reconciler
	purchases     repository.PurchaseRepository
	entitlements  repository.EntitlementRepository
	gateway       cashfree.Client
	launcher      *cashfree.Launcher
	returnURLBase string
	pendingMinAge time.Duration
}

// NewCheckoutFacade constructs the facade.
func NewCheckoutFacade(
	cart *usecase.CartUseCase,
	builder *usecase.OrderBuilder,
	verifier *usecase.Verifier,
	reconciler *usecase.Reconciler,
	purchases repository.PurchaseRepository,
	entitlements repository.EntitlementRepository,
	gateway cashfree.Client,
	launcher *cashfree.Launcher,
	returnURLBase string,
	pendingMinAge time.Duration,
) *CheckoutFacade {
	return &CheckoutFacade{
		cart:          cart,
		builder:       builder,
		verifier:      verifier,
		reconciler:    reconciler,
		purchases:     purchases,
		entitlements:  entitlements,
		gateway:       gateway,
		launcher:      launcher,
		returnURLBase: returnURLBase,
		pendingMinAge: pendingMinAge,
	}
}

// CartItems returns the caller's cart contents.
func (f *CheckoutFacade) CartItems(ctx context.Context, userID string) ([]model.CartItem, error) {
	return f.cart.Items(ctx, userID)
}

// AddToCart puts a course into the cart. Returns false for duplicates.
func (f *CheckoutFacade) AddToCart(ctx context.Context, userID string, item model.CartItem) (bool, error) {
	return f.cart.Add(ctx, userID, item)
}

// RemoveFromCart drops a course from the cart.
func (f *CheckoutFacade) RemoveFromCart(ctx context.Context, userID, courseID string) error {
	return f.cart.Remove(ctx, userID, courseID)
}

// ClearCart empties the cart.
func (f *CheckoutFacade) ClearCart(ctx context.Context, userID string) error {
	return f.cart.Clear(ctx, userID)
}

// CartTotals sums the cart.
func (f *CheckoutFacade) CartTotals(ctx context.Context, userID string) (model.CartTotals, error) {
	return f.cart.Totals(ctx, userID)
}

// CartCount returns the number of items in the cart.
func (f *CheckoutFacade) CartCount(ctx context.Context, userID string) (int, error) {
	return f.cart.Count(ctx, userID)
}

// CheckoutCart starts a payment for the whole cart.
func (f *CheckoutFacade) CheckoutCart(ctx context.Context, identity *model.Identity, phone string) (*CheckoutResult, error) {
	items, err := f.cart.Items(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	return f.checkout(ctx, identity, items, true, phone)
}

// BuyCourse starts a payment for a single course, bypassing the cart.
func (f *CheckoutFacade) BuyCourse(ctx context.Context, identity *model.Identity, item model.CartItem, phone string) (*CheckoutResult, error) {
	return f.checkout(ctx, identity, []model.CartItem{item}, false, phone)
}

// checkout builds the order, registers it with the gateway, records the
// Pending purchase, then resolves widget options. Ordering matters: a gateway
// failure leaves no local record at all, while a widget failure after the
// record exists leaves it Pending for the sweeper to resolve.
func (f *CheckoutFacade) checkout(ctx context.Context, identity *model.Identity, items []model.CartItem, fromCart bool, phone string) (*CheckoutResult, error) {
	req, err := f.builder.Build(identity, items, phone)
	if err != nil {
		return nil, err
	}

	session, err := f.gateway.CreateOrder(ctx, *req)
	if err != nil {
		return nil, err
	}

	purchase := &model.Purchase{
		OrderID:        req.OrderID,
		GatewayOrderID: session.GatewayOrderID,
		UserID:         identity.UserID,
		Items:          usecase.PurchaseItems(items),
		TotalAmount:    req.Amount,
		Currency:       req.Currency,
		Status:         model.PurchaseStatusPending,
		FromCart:       fromCart,
	}
	if err := f.purchases.Create(ctx, purchase); err != nil {
		return nil, err
	}

	options, err := f.launcher.Open(ctx, session, f.returnURLBase)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Session: session, Options: options}, nil
}

// ConfirmReturn handles the browser's return from the payment widget: one
// verification query, then reconciliation.
func (f *CheckoutFacade) ConfirmReturn(ctx context.Context, identity *model.Identity, orderID string) (*model.Purchase, error) {
	outcome := f.verifier.Verify(ctx, orderID)
	return f.reconciler.Reconcile(ctx, orderID, outcome, identity)
}

// Purchases returns the caller's purchase history, newest first.
func (f *CheckoutFacade) Purchases(ctx context.Context, userID string) ([]model.Purchase, error) {
	return f.purchases.ListByUser(ctx, userID)
}

// Entitlements returns the course IDs the caller owns.
func (f *CheckoutFacade) Entitlements(ctx context.Context, userID string) ([]string, error) {
	return f.entitlements.List(ctx, userID)
}

// HasEntitlement reports whether the caller owns a course.
func (f *CheckoutFacade) HasEntitlement(ctx context.Context, userID, courseID string) (bool, error) {
	return f.entitlements.Has(ctx, userID, courseID)
}

// StalePending lists purchases stuck in PENDING past the minimum age.
func (f *CheckoutFacade) StalePending(ctx context.Context, limit int) ([]model.Purchase, error) {
	return f.purchases.SelectStalePending(ctx, time.Now().Add(-f.pendingMinAge), limit)
}

// ResolvePending re-checks one stale purchase against the gateway. Orders the
// gateway still reports as open are left alone; transient gateway errors
// propagate so the next sweep retries instead of failing the purchase.
func (f *CheckoutFacade) ResolvePending(ctx context.Context, orderID string) error {
	state, err := f.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if state.OrderStatus == cashfree.StatusActive {
		return nil
	}

	outcome := model.OutcomeNotPaid
	if state.OrderStatus == cashfree.StatusPaid {
		outcome = model.OutcomePaid
	}
	_, err = f.reconciler.Reconcile(ctx, orderID, outcome, nil)
	return err
}

// RelayCreateOrder forwards a raw order creation payload to the gateway.
func (f *CheckoutFacade) RelayCreateOrder(ctx context.Context, payload []byte) (int, []byte, error) {
	return f.gateway.RelayCreateOrder(ctx, payload)
}

// RelayFetchOrder forwards a raw order lookup to the gateway.
func (f *CheckoutFacade) RelayFetchOrder(ctx context.Context, orderID string) (int, []byte, error) {
	return f.gateway.RelayFetchOrder(ctx, orderID)
}
