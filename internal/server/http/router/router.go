package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickedu/checkout/internal/server/http/dto"
	"github.com/quickedu/checkout/internal/server/http/handlers"
	"github.com/quickedu/checkout/internal/server/http/middleware"
)

var availableEndpoints = []string{
	"POST /api/create-order",
	"GET /api/verify-payment/{orderId}",
	"GET /api/health",
	"GET /api/cart",
	"POST /api/cart",
	"DELETE /api/cart",
	"DELETE /api/cart/{courseId}",
	"POST /api/checkout",
	"GET /api/payment/return",
	"GET /api/purchases",
	"GET /api/entitlements",
	"GET /metrics",
}

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.Facade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.CORS())
	engine.Use(middleware.Metrics())
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	relayHandler := handlers.NewRelayHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	checkoutHandler := handlers.NewCheckoutHandler(facade)
	historyHandler := handlers.NewHistoryHandler(facade)

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.POST("/create-order", relayHandler.CreateOrder)
	api.GET("/verify-payment/:orderId", relayHandler.VerifyPayment)
	api.GET("/health", relayHandler.Health)

	authed := api.Group("")
	authed.Use(middleware.IdentityRequired())
	authed.GET("/cart", cartHandler.List)
	authed.POST("/cart", cartHandler.Add)
	authed.DELETE("/cart", cartHandler.Clear)
	authed.DELETE("/cart/:courseId", cartHandler.Remove)
	authed.POST("/checkout", checkoutHandler.Checkout)
	authed.GET("/payment/return", checkoutHandler.Return)
	authed.GET("/purchases", historyHandler.Purchases)
	authed.GET("/entitlements", historyHandler.Entitlements)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NotFoundResponse{
			Error:              "Endpoint not found",
			Method:             c.Request.Method,
			URI:                c.Request.URL.RequestURI(),
			AvailableEndpoints: availableEndpoints,
		})
	})

	return engine
}
