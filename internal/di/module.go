package di

import (
	"go.uber.org/fx"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/adapter/mail"
	"github.com/quickedu/checkout/internal/adapter/txlog"
	"github.com/quickedu/checkout/internal/app"
	"github.com/quickedu/checkout/internal/config"
	"github.com/quickedu/checkout/internal/logger"
	"github.com/quickedu/checkout/internal/server/http/handlers"
	"github.com/quickedu/checkout/internal/server/http/router"
	"github.com/quickedu/checkout/internal/storage/postgres"
	"github.com/quickedu/checkout/internal/storage/rediscart"
	"github.com/quickedu/checkout/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		rediscart.Module,
		cashfree.Module,
		mail.Module,
		txlog.Module,
		usecase.Module,
		fx.Provide(func(facade *app.CheckoutFacade) handlers.Facade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
