package usecase

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/domain/repository"
)

// CartUseCase owns cart mutations and exposes a change-notification signal.
// All writers go through it so subscribers observe every mutation.
type CartUseCase struct {
	carts repository.CartRepository

	mu   sync.Mutex
	subs []chan struct{}
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(carts repository.CartRepository) *CartUseCase {
	return &CartUseCase{carts: carts}
}

// Items returns the cart contents in insertion order.
func (u *CartUseCase) Items(ctx context.Context, userID string) ([]model.CartItem, error) {
	return u.carts.Get(ctx, userID)
}

// Add puts a course into the cart. Returns false without modifying anything
// when the course is already present.
func (u *CartUseCase) Add(ctx context.Context, userID string, item model.CartItem) (bool, error) {
	items, err := u.carts.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, existing := range items {
		if existing.CourseID == item.CourseID {
			return false, nil
		}
	}

	items = append(items, item)
	if err := u.carts.Save(ctx, userID, items); err != nil {
		return false, err
	}
	u.notify()
	return true, nil
}

// Remove drops a course from the cart. Removing an absent course is a no-op.
func (u *CartUseCase) Remove(ctx context.Context, userID, courseID string) error {
	items, err := u.carts.Get(ctx, userID)
	if err != nil {
		return err
	}

	filtered := items[:0]
	for _, item := range items {
		if item.CourseID != courseID {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == len(items) {
		return nil
	}

	if err := u.carts.Save(ctx, userID, filtered); err != nil {
		return err
	}
	u.notify()
	return nil
}

// Contains reports whether a course is in the cart.
func (u *CartUseCase) Contains(ctx context.Context, userID, courseID string) (bool, error) {
	items, err := u.carts.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, item := range items {
		if item.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

// Totals sums prices and original prices over the cart.
func (u *CartUseCase) Totals(ctx context.Context, userID string) (model.CartTotals, error) {
	items, err := u.carts.Get(ctx, userID)
	if err != nil {
		return model.CartTotals{}, err
	}

	total := decimal.Zero
	originalTotal := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
		originalTotal = originalTotal.Add(item.OriginalPrice)
	}

	return model.CartTotals{
		Total:         total,
		OriginalTotal: originalTotal,
		Savings:       originalTotal.Sub(total),
	}, nil
}

// Count returns the number of items in the cart.
func (u *CartUseCase) Count(ctx context.Context, userID string) (int, error) {
	items, err := u.carts.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Clear empties the cart atomically.
func (u *CartUseCase) Clear(ctx context.Context, userID string) error {
	if err := u.carts.Clear(ctx, userID); err != nil {
		return err
	}
	u.notify()
	return nil
}

// Subscribe returns a channel that receives a signal after every cart
// mutation. Signals are dropped, not queued, when the subscriber lags.
func (u *CartUseCase) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	u.mu.Lock()
	u.subs = append(u.subs, ch)
	u.mu.Unlock()
	return ch
}

func (u *CartUseCase) notify() {
	u.mu.Lock()
	defer u.mu.Unlock()
	for _, ch := range u.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
