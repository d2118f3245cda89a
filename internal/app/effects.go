package app

import (
	"context"
	"log/slog"

	"github.com/quickedu/checkout/internal/adapter/mail"
	"github.com/quickedu/checkout/internal/adapter/txlog"
	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/worker"
)

// AsyncEffects runs post-purchase follow-ups on the effects queue. Failures
// are logged and dropped; the purchase outcome is already final when a job
// runs.
type AsyncEffects struct {
	queue  *worker.EffectsQueue
	mirror txlog.Mirror
	mail   mail.Sender
	logger *slog.Logger
}

// NewAsyncEffects constructs the side-effect dispatcher.
func NewAsyncEffects(queue *worker.EffectsQueue, mirror txlog.Mirror, sender mail.Sender, logger *slog.Logger) *AsyncEffects {
	return &AsyncEffects{queue: queue, mirror: mirror, mail: sender, logger: logger}
}

// MirrorCompleted schedules a transaction log write for a completed purchase.
func (e *AsyncEffects) MirrorCompleted(purchase model.Purchase, identity *model.Identity) {
	var name, email string
	if identity != nil {
		name, email = identity.Name, identity.Email
	}
	e.queue.Enqueue(worker.EffectJob{
		Name: "mirror",
		Run: func(ctx context.Context) {
			entry := txlog.EntryFromPurchase(&purchase, name, email, string(purchase.Status))
			if err := e.mirror.Record(ctx, entry); err != nil {
				e.logger.Warn("transaction mirror dropped",
					slog.String("order", purchase.OrderID),
					slog.String("error", err.Error()),
				)
			}
		},
	})
}

// SendReceipt schedules a confirmation email. Skipped when no recipient email
// is known, which is the case on the sweeper path.
func (e *AsyncEffects) SendReceipt(purchase model.Purchase, identity *model.Identity) {
	if identity == nil || identity.Email == "" {
		e.logger.Debug("no recipient for receipt, skipping", slog.String("order", purchase.OrderID))
		return
	}

	titles := make([]string, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		titles = append(titles, item.Title)
	}
	receipt := mail.Receipt{
		RecipientName:  identity.Name,
		RecipientEmail: identity.Email,
		OrderID:        purchase.OrderID,
		GatewayOrderID: purchase.GatewayOrderID,
		CourseTitles:   titles,
		Amount:         purchase.TotalAmount,
		Currency:       purchase.Currency,
		PurchasedAt:    purchase.UpdatedAt,
	}

	e.queue.Enqueue(worker.EffectJob{
		Name: "receipt",
		Run: func(ctx context.Context) {
			if err := e.mail.SendReceipt(ctx, receipt); err != nil {
				e.logger.Warn("receipt delivery failed",
					slog.String("order", purchase.OrderID),
					slog.String("error", err.Error()),
				)
			}
		},
	})
}
