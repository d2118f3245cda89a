package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/quickedu/checkout/internal/domain/errors"
	"github.com/quickedu/checkout/internal/domain/model"
)

// PurchaseRepositoryStub stores purchases in-memory for tests, enforcing the
// same terminal-state guard as the real storage.
type PurchaseRepositoryStub struct {
	mu        sync.Mutex
	Purchases map[string]*model.Purchase
	Err       error
}

// NewPurchaseRepositoryStub constructs stub repository with initialized maps.
func NewPurchaseRepositoryStub() *PurchaseRepositoryStub {
	return &PurchaseRepositoryStub{Purchases: make(map[string]*model.Purchase)}
}

func (s *PurchaseRepositoryStub) Create(ctx context.Context, purchase *model.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, exists := s.Purchases[purchase.OrderID]; exists {
		return domainErrors.ErrAlreadyExists
	}
	now := time.Now()
	purchase.CreatedAt = now
	purchase.UpdatedAt = now
	clone := *purchase
	s.Purchases[purchase.OrderID] = &clone
	return nil
}

func (s *PurchaseRepositoryStub) GetByOrderID(ctx context.Context, orderID string) (*model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if p, ok := s.Purchases[orderID]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *PurchaseRepositoryStub) ListByUser(ctx context.Context, userID string) ([]model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Purchase
	for _, p := range s.Purchases {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *PurchaseRepositoryStub) Transition(ctx context.Context, orderID string, to model.PurchaseStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	p, ok := s.Purchases[orderID]
	if !ok || p.Status != model.PurchaseStatusPending {
		return false, nil
	}
	p.Status = to
	p.UpdatedAt = time.Now()
	return true, nil
}

func (s *PurchaseRepositoryStub) SelectStalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []model.Purchase
	for _, p := range s.Purchases {
		if p.Status == model.PurchaseStatusPending && p.CreatedAt.Before(cutoff) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// EntitlementRepositoryStub keeps granted courses per user.
type EntitlementRepositoryStub struct {
	mu      sync.Mutex
	Granted map[string][]string
	Err     error
}

// NewEntitlementRepositoryStub constructs stub with initialized map.
func NewEntitlementRepositoryStub() *EntitlementRepositoryStub {
	return &EntitlementRepositoryStub{Granted: make(map[string][]string)}
}

func (s *EntitlementRepositoryStub) Grant(ctx context.Context, userID string, courseIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, courseID := range courseIDs {
		if !contains(s.Granted[userID], courseID) {
			s.Granted[userID] = append(s.Granted[userID], courseID)
		}
	}
	return nil
}

func (s *EntitlementRepositoryStub) List(ctx context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]string(nil), s.Granted[userID]...), nil
}

func (s *EntitlementRepositoryStub) Has(ctx context.Context, userID, courseID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return contains(s.Granted[userID], courseID), nil
}

// CartRepositoryStub keeps cart documents in-memory.
type CartRepositoryStub struct {
	mu    sync.Mutex
	Carts map[string][]model.CartItem
	Err   error
}

// NewCartRepositoryStub constructs stub with initialized map.
func NewCartRepositoryStub() *CartRepositoryStub {
	return &CartRepositoryStub{Carts: make(map[string][]model.CartItem)}
}

func (s *CartRepositoryStub) Get(ctx context.Context, userID string) ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return append([]model.CartItem(nil), s.Carts[userID]...), nil
}

func (s *CartRepositoryStub) Save(ctx context.Context, userID string, items []model.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Carts[userID] = append([]model.CartItem(nil), items...)
	return nil
}

func (s *CartRepositoryStub) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.Carts, userID)
	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
