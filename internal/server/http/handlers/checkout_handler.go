package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickedu/checkout/internal/adapter/cashfree"
	"github.com/quickedu/checkout/internal/app"
	domainErrors "github.com/quickedu/checkout/internal/domain/errors"
	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/server/http/dto"
)

// CheckoutHandler starts payments and confirms their outcome.
type CheckoutHandler struct {
	facade PaymentFacade
}

// NewCheckoutHandler creates CheckoutHandler instance.
func NewCheckoutHandler(facade PaymentFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Checkout handles POST /api/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Checkout payload is invalid"})
		return
	}

	identity := CurrentIdentity(c)
	ctx := c.Request.Context()

	var result *app.CheckoutResult
	var err error
	if req.Course != nil {
		result, err = h.facade.BuyCourse(ctx, identity, *req.Course, req.Phone)
	} else {
		result, err = h.facade.CheckoutCart(ctx, identity, req.Phone)
	}
	if err != nil {
		h.checkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		OrderID:        result.Session.OrderID,
		GatewayOrderID: result.Session.GatewayOrderID,
		Checkout: dto.CheckoutOptions{
			PaymentSessionID: result.Options.PaymentSessionID,
			ReturnURL:        result.Options.ReturnURL,
			Mode:             result.Options.Mode,
		},
	})
}

// Return handles GET /api/payment/return.
func (h *CheckoutHandler) Return(c *gin.Context) {
	orderID := c.Query("order_id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "order_id is required"})
		return
	}

	purchase, err := h.facade.ConfirmReturn(c.Request.Context(), CurrentIdentity(c), orderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, dto.PaymentReturnResponse{
		OrderID: purchase.OrderID,
		Status:  string(purchase.Status),
		Success: purchase.Status == model.PurchaseStatusCompleted,
	})
}

func (h *CheckoutHandler) checkoutError(c *gin.Context, err error) {
	var gatewayErr *cashfree.GatewayError
	switch {
	case errors.Is(err, domainErrors.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Nothing to pay for"})
	case errors.Is(err, domainErrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Order total must be positive"})
	case errors.Is(err, domainErrors.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Authentication required"})
	case errors.Is(err, cashfree.ErrGatewayUnavailable),
		errors.Is(err, cashfree.ErrWidgetUnavailable),
		errors.As(err, &gatewayErr):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Payment service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
	}
}
