package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/test"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestVerifyFailClosed(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		err     error
		outcome model.PaymentOutcome
	}{
		{name: "paid", status: "PAID", outcome: model.OutcomePaid},
		{name: "active", status: "ACTIVE", outcome: model.OutcomeNotPaid},
		{name: "expired", status: "EXPIRED", outcome: model.OutcomeNotPaid},
		{name: "terminated", status: "TERMINATED", outcome: model.OutcomeNotPaid},
		{name: "lowercase paid", status: "paid", outcome: model.OutcomeNotPaid},
		{name: "empty", status: "", outcome: model.OutcomeNotPaid},
		{name: "gateway error", err: errors.New("boom"), outcome: model.OutcomeNotPaid},
		{name: "gateway unavailable", err: cashfree.ErrGatewayUnavailable, outcome: model.OutcomeNotPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &test.GatewayStub{
				FetchOrderFn: func(ctx context.Context, orderID string) (*cashfree.OrderState, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &cashfree.OrderState{OrderID: orderID, OrderStatus: tt.status}, nil
				},
			}
			v := NewVerifier(gateway, discardLogger())
			if got := v.Verify(context.Background(), "ORDER_1"); got != tt.outcome {
				t.Fatalf("Verify() = %v, want %v", got, tt.outcome)
			}
		})
	}
}
