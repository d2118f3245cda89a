package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickedu/checkout/internal/server/http/dto"
)

// HistoryHandler serves purchase history and course ownership.
type HistoryHandler struct {
	facade HistoryFacade
}

// NewHistoryHandler creates HistoryHandler instance.
func NewHistoryHandler(facade HistoryFacade) *HistoryHandler {
	return &HistoryHandler{facade: facade}
}

// Purchases handles GET /api/purchases.
func (h *HistoryHandler) Purchases(c *gin.Context) {
	identity := CurrentIdentity(c)
	purchases, err := h.facade.Purchases(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, dto.PurchaseFromModel(p))
	}
	c.JSON(http.StatusOK, out)
}

// Entitlements handles GET /api/entitlements.
func (h *HistoryHandler) Entitlements(c *gin.Context) {
	identity := CurrentIdentity(c)
	courseIDs, err := h.facade.Entitlements(c.Request.Context(), identity.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	if courseIDs == nil {
		courseIDs = []string{}
	}
	c.JSON(http.StatusOK, dto.EntitlementsResponse{CourseIDs: courseIDs})
}
