package repository

import (
	"context"

	"github.com/quickedu/checkout/internal/domain/model"
)

// CartRepository stores the full cart document per user. Item ordering is
// preserved as stored.
type CartRepository interface {
	Get(ctx context.Context, userID string) ([]model.CartItem, error)
	Save(ctx context.Context, userID string, items []model.CartItem) error
	Clear(ctx context.Context, userID string) error
}
