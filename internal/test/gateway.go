package test

import (
	"context"
	"sync"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/domain/model"
)

// GatewayStub allows tests to customize gateway behaviour per call.
type GatewayStub struct {
	CreateOrderFn      func(ctx context.Context, req model.OrderRequest) (*model.OrderSession, error)
	FetchOrderFn       func(ctx context.Context, orderID string) (*cashfree.OrderState, error)
	RelayCreateOrderFn func(ctx context.Context, payload []byte) (int, []byte, error)
	RelayFetchOrderFn  func(ctx context.Context, orderID string) (int, []byte, error)
}

func (s *GatewayStub) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.OrderSession, error) {
	return s.CreateOrderFn(ctx, req)
}

func (s *GatewayStub) FetchOrder(ctx context.Context, orderID string) (*cashfree.OrderState, error) {
	return s.FetchOrderFn(ctx, orderID)
}

func (s *GatewayStub) RelayCreateOrder(ctx context.Context, payload []byte) (int, []byte, error) {
	return s.RelayCreateOrderFn(ctx, payload)
}

func (s *GatewayStub) RelayFetchOrder(ctx context.Context, orderID string) (int, []byte, error) {
	return s.RelayFetchOrderFn(ctx, orderID)
}

// SideEffectsRecorder captures best-effort side effects for assertions.
type SideEffectsRecorder struct {
	mu        sync.Mutex
	Mirrored  []model.Purchase
	Receipts  []model.Purchase
	Identities []*model.Identity
}

func (r *SideEffectsRecorder) MirrorCompleted(purchase model.Purchase, identity *model.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Mirrored = append(r.Mirrored, purchase)
	r.Identities = append(r.Identities, identity)
}

func (r *SideEffectsRecorder) SendReceipt(purchase model.Purchase, identity *model.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Receipts = append(r.Receipts, purchase)
}

// MirrorCount returns the number of mirrored transactions.
func (r *SideEffectsRecorder) MirrorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Mirrored)
}

// ReceiptCount returns the number of receipts sent.
func (r *SideEffectsRecorder) ReceiptCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Receipts)
}
