package repository

import (
	"context"
	"time"

	"github.com/quickedu/checkout/internal/domain/model"
)

// PurchaseRepository describes persistence operations with purchase records.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *model.Purchase) error
	GetByOrderID(ctx context.Context, orderID string) (*model.Purchase, error)
	ListByUser(ctx context.Context, userID string) ([]model.Purchase, error)
	// Transition moves a purchase from Pending to a terminal status. It
	// reports false when the record was already finalized, which makes
	// repeated reconciliation a no-op.
	Transition(ctx context.Context, orderID string, to model.PurchaseStatus) (bool, error)
	// SelectStalePending returns Pending purchases created before cutoff,
	// oldest first.
	SelectStalePending(ctx context.Context, cutoff time.Time, limit int) ([]model.Purchase, error)
}
