package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/adapter/mail"
	"github.com/quickedu/checkout/internal/adapter/txlog"
	"github.com/quickedu/checkout/internal/config"
	"github.com/quickedu/checkout/internal/domain/repository"
	"github.com/quickedu/checkout/internal/usecase"
	"github.com/quickedu/checkout/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newEffectsQueue,
		newAsyncEffects,
		func(e *AsyncEffects) usecase.SideEffects { return e },
		newCheckoutFacade,
		newHTTPServer,
		newPendingSweeper,
	),
	fx.Invoke(registerLifecycle),
)

type effectsParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newEffectsQueue(p effectsParams) *worker.EffectsQueue {
	return worker.NewEffectsQueue(p.Config.WorkerPoolSize, p.Config.EffectsQueueSize, p.Logger)
}

type asyncEffectsParams struct {
	fx.In

	Queue  *worker.EffectsQueue
	Mirror txlog.Mirror
	Mail   mail.Sender
	Logger *slog.Logger
}

func newAsyncEffects(p asyncEffectsParams) *AsyncEffects {
	return NewAsyncEffects(p.Queue, p.Mirror, p.Mail, p.Logger)
}

type facadeParams struct {
	fx.In

	Config       *config.Config
	Cart         *usecase.CartUseCase
	Builder      *usecase.OrderBuilder
	Verifier     *usecase.Verifier
	Reconciler   *usecase.Reconciler
	Purchases    repository.PurchaseRepository
	Entitlements repository.EntitlementRepository
	Gateway      cashfree.Client
	Launcher     *cashfree.Launcher
}

func newCheckoutFacade(p facadeParams) *CheckoutFacade {
	return NewCheckoutFacade(
		p.Cart,
		p.Builder,
		p.Verifier,
		p.Reconciler,
		p.Purchases,
		p.Entitlements,
		p.Gateway,
		p.Launcher,
		p.Config.ReturnURLBase,
		p.Config.PendingMinAge,
	)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type sweeperParams struct {
	fx.In

	Facade *CheckoutFacade
	Config *config.Config
	Logger *slog.Logger
}

func newPendingSweeper(p sweeperParams) *worker.PendingSweeper {
	return worker.NewPendingSweeper(
		p.Facade,
		p.Config.PendingSweepInterval,
		p.Config.PendingSweepBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Effects    *worker.EffectsQueue
	Sweeper    *worker.PendingSweeper
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting checkout service", slog.String("addr", p.Server.Addr))
			p.Effects.Start(ctx)
			p.Sweeper.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Sweeper.Stop()
			p.Effects.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("checkout service stopped")
			return nil
		},
	})
}
