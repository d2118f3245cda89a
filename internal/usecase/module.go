package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/config"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewCartUseCase,
	newOrderBuilder,
	newVerifier,
	NewReconciler,
)

func newOrderBuilder(cfg *config.Config) *OrderBuilder {
	return NewOrderBuilder(cfg.OrderCurrency, cfg.ReturnURLBase, cfg.NotifyURLBase)
}

type verifierParams struct {
	fx.In

	Gateway cashfree.Client
	Logger  *slog.Logger
}

func newVerifier(p verifierParams) *Verifier {
	return NewVerifier(p.Gateway, p.Logger)
}
