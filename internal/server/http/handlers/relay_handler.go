package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/server/http/dto"
)

// RelayHandler forwards gateway traffic verbatim for browser-side callers
// that must not hold the gateway credentials.
type RelayHandler struct {
	facade RelayFacade
}

// NewRelayHandler creates RelayHandler instance.
func NewRelayHandler(facade RelayFacade) *RelayHandler {
	return &RelayHandler{facade: facade}
}

// CreateOrder handles POST /api/create-order.
func (h *RelayHandler) CreateOrder(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Unable to read request body"})
		return
	}

	status, body, err := h.facade.RelayCreateOrder(c.Request.Context(), payload)
	if err != nil {
		h.relayError(c, err)
		return
	}
	c.Data(status, "application/json", body)
}

// VerifyPayment handles GET /api/verify-payment/:orderId.
func (h *RelayHandler) VerifyPayment(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Order ID is required"})
		return
	}

	status, body, err := h.facade.RelayFetchOrder(c.Request.Context(), orderID)
	if err != nil {
		h.relayError(c, err)
		return
	}
	c.Data(status, "application/json", body)
}

// Health handles GET /api/health.
func (h *RelayHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Message: "Payment relay is running",
	})
}

func (h *RelayHandler) relayError(c *gin.Context, err error) {
	if errors.Is(err, cashfree.ErrGatewayUnavailable) {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Payment gateway unreachable"})
		return
	}
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}
