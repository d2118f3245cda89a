package usecase

import (
	"context"
	"log/slog"

	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/domain/repository"
)

// SideEffects receives best-effort follow-ups of a completed purchase. Calls
// must never block and never report failure back to the reconciler.
type SideEffects interface {
	MirrorCompleted(purchase model.Purchase, identity *model.Identity)
	SendReceipt(purchase model.Purchase, identity *model.Identity)
}

// Reconciler applies a verified payment outcome to local state exactly once.
type Reconciler struct {
	purchases    repository.PurchaseRepository
	entitlements repository.EntitlementRepository
	cart         *CartUseCase
	effects      SideEffects
	logger       *slog.Logger
}

// NewReconciler constructs Reconciler.
func NewReconciler(
	purchases repository.PurchaseRepository,
	entitlements repository.EntitlementRepository,
	cart *CartUseCase,
	effects SideEffects,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		purchases:    purchases,
		entitlements: entitlements,
		cart:         cart,
		effects:      effects,
		logger:       logger,
	}
}

// Reconcile moves the purchase for orderID into a terminal state according to
// the outcome. Re-running for an already-terminal purchase is a no-op: the
// terminal-state gate runs before any mutation. Identity may be nil (sweeper
// path); the receipt email is skipped then.
func (r *Reconciler) Reconcile(ctx context.Context, orderID string, outcome model.PaymentOutcome, identity *model.Identity) (*model.Purchase, error) {
	purchase, err := r.purchases.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if purchase.Status.IsTerminal() {
		return purchase, nil
	}

	if outcome != model.OutcomePaid {
		return r.markFailed(ctx, purchase)
	}
	return r.markCompleted(ctx, purchase, identity)
}

func (r *Reconciler) markFailed(ctx context.Context, purchase *model.Purchase) (*model.Purchase, error) {
	changed, err := r.purchases.Transition(ctx, purchase.OrderID, model.PurchaseStatusFailed)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Lost a race against another reconciliation; the stored state wins.
		return r.purchases.GetByOrderID(ctx, purchase.OrderID)
	}
	purchase.Status = model.PurchaseStatusFailed
	r.logger.Info("purchase failed", slog.String("order", purchase.OrderID))
	return purchase, nil
}

func (r *Reconciler) markCompleted(ctx context.Context, purchase *model.Purchase, identity *model.Identity) (*model.Purchase, error) {
	courseIDs := make([]string, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		courseIDs = append(courseIDs, item.CourseID)
	}

	// Grant first: re-granting is a set union, so a retry after a partial
	// failure cannot double-grant.
	if err := r.entitlements.Grant(ctx, purchase.UserID, courseIDs); err != nil {
		return nil, err
	}

	changed, err := r.purchases.Transition(ctx, purchase.OrderID, model.PurchaseStatusCompleted)
	if err != nil {
		return nil, err
	}
	if !changed {
		return r.purchases.GetByOrderID(ctx, purchase.OrderID)
	}
	purchase.Status = model.PurchaseStatusCompleted

	if purchase.FromCart {
		if err := r.cart.Clear(ctx, purchase.UserID); err != nil {
			// Entitlement is already granted; a stale cart is recoverable.
			r.logger.Error("cart clear failed after completed purchase",
				slog.String("order", purchase.OrderID),
				slog.String("error", err.Error()),
			)
		}
	}

	r.effects.MirrorCompleted(*purchase, identity)
	r.effects.SendReceipt(*purchase, identity)

	r.logger.Info("purchase completed",
		slog.String("order", purchase.OrderID),
		slog.String("user", purchase.UserID),
		slog.Int("courses", len(courseIDs)),
	)
	return purchase, nil
}
