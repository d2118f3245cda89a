package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/server/http/dto"
)

// CartHandler processes cart reads and mutations.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler creates CartHandler instance.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// List handles GET /api/cart.
func (h *CartHandler) List(c *gin.Context) {
	identity := CurrentIdentity(c)
	ctx := c.Request.Context()

	items, err := h.facade.CartItems(ctx, identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	totals, err := h.facade.CartTotals(ctx, identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	if items == nil {
		items = []model.CartItem{}
	}

	c.JSON(http.StatusOK, dto.CartResponse{
		Items:         items,
		Count:         len(items),
		Total:         totals.Total,
		OriginalTotal: totals.OriginalTotal,
		Savings:       totals.Savings,
	})
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(c *gin.Context) {
	var item model.CartItem
	if err := c.ShouldBindJSON(&item); err != nil || item.CourseID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Course payload is invalid"})
		return
	}

	identity := CurrentIdentity(c)
	added, err := h.facade.AddToCart(c.Request.Context(), identity.UserID, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	count, err := h.facade.CartCount(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	c.JSON(status, dto.AddCartItemResponse{Added: added, Count: count})
}

// Remove handles DELETE /api/cart/:courseId.
func (h *CartHandler) Remove(c *gin.Context) {
	identity := CurrentIdentity(c)
	if err := h.facade.RemoveFromCart(c.Request.Context(), identity.UserID, c.Param("courseId")); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	identity := CurrentIdentity(c)
	if err := h.facade.ClearCart(c.Request.Context(), identity.UserID); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
