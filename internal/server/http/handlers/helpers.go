package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quickedu/checkout/internal/domain/model"
	"github.com/quickedu/checkout/internal/server/http/middleware"
)

// CurrentIdentity extracts the authenticated caller from context.
func CurrentIdentity(c *gin.Context) *model.Identity {
	val, ok := c.Get(middleware.IdentityContextKey)
	if !ok {
		return nil
	}
	identity, _ := val.(*model.Identity)
	return identity
}
