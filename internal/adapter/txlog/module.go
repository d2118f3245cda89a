package txlog

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/quickedu/checkout/internal/config"
)

// Module exposes the transaction log mirror to the fx graph.
var Module = fx.Options(
	fx.Provide(newMirror),
)

type mirrorParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	Lifecycle fx.Lifecycle
}

func newMirror(p mirrorParams) Mirror {
	if !p.Config.TxLogEnabled() {
		return NewNopMirror(p.Logger)
	}

	mirror := NewKafkaMirror(p.Config.KafkaBrokers, p.Config.KafkaTxLogTopic, p.Logger)
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return mirror.Close()
		},
	})
	return mirror
}
