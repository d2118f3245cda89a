package cashfree

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/quickedu/checkout/internal/config"
)

// Module exposes gateway client and checkout launcher to the fx graph.
var Module = fx.Provide(newClient, newLauncher)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(BaseURLForEnv(p.Config.CashfreeEnv), p.Config.CashfreeAppID, p.Config.CashfreeSecretKey, p.Logger)
}

func newLauncher(p clientParams) *Launcher {
	return NewLauncher("", p.Config.CashfreeEnv, p.Logger)
}
