package rediscart

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/quickedu/checkout/internal/config"
	"github.com/quickedu/checkout/internal/domain/repository"
)

// Module wires the Redis cart store and its repository adapter.
var Module = fx.Options(
	fx.Provide(newStore),
	fx.Provide(func(s *Store) repository.CartRepository { return s }),
	fx.Invoke(registerLifecycle),
)

type storeParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newStore(p storeParams) (*Store, error) {
	return New(p.Ctx, p.Config.RedisAddr, p.Config.RedisPassword, p.Config.RedisDB, p.Config.CartTTL, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, store *Store) {
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
}
