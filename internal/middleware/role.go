package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"safaribook/internal/pkg/response"
)

// AdminOnly must run after JWTAuth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, ok := CurrentMember(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Access denied")
			return
		}
		if !member.IsAdmin {
			response.Abort(c, http.StatusForbidden, "Access denied. Admins only.")
			return
		}
		c.Next()
	}
}
