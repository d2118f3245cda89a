package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickedu/checkout/internal/domain/model"
)

// IdentityContextKey is a gin context key for the authenticated caller.
const IdentityContextKey = "identity"

// Caller identification headers set by the auth collaborator in front of
// this service.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

// IdentityRequired ensures the caller is identified before accessing handler.
func IdentityRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := &model.Identity{
			UserID: c.GetHeader(HeaderUserID),
			Name:   c.GetHeader(HeaderUserName),
			Email:  c.GetHeader(HeaderUserEmail),
		}
		if !identity.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.Set(IdentityContextKey, identity)
		c.Next()
	}
}
