package usecase

import (
	"context"
	"log/slog"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/domain/model"
)

// StatusProvider queries the gateway for current order state.
type StatusProvider interface {
	FetchOrder(ctx context.Context, orderID string) (*cashfree.OrderState, error)
}

// Verifier maps the gateway's order status to a canonical payment outcome.
type Verifier struct {
	gateway StatusProvider
	logger  *slog.Logger
}

// NewVerifier constructs Verifier.
func NewVerifier(gateway StatusProvider, logger *slog.Logger) *Verifier {
	return &Verifier{gateway: gateway, logger: logger}
}

// Verify performs a single status query. The outcome is Paid only when the
// gateway reports the exact success sentinel; every other status and every
// error maps to NotPaid. Under-granting is preferred over over-granting.
func (v *Verifier) Verify(ctx context.Context, orderID string) model.PaymentOutcome {
	state, err := v.gateway.FetchOrder(ctx, orderID)
	if err != nil {
		v.logger.Warn("payment verification failed, treating as not paid",
			slog.String("order", orderID),
			slog.String("error", err.Error()),
		)
		return model.OutcomeNotPaid
	}
	if state.OrderStatus == cashfree.StatusPaid {
		return model.OutcomePaid
	}
	return model.OutcomeNotPaid
}
