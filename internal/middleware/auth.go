package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"safaribook/internal/domain"
	"safaribook/internal/modules/identity"
	"safaribook/internal/pkg/response"
)

const (
	ctxIdentity = "identity"
	ctxUserID   = "user_id"
	ctxIsAdmin  = "is_admin"
)

// JWTAuth rejects requests without a valid bearer token.
func JWTAuth(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		member, err := resolver.Authenticate(c.GetHeader("Authorization"))
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, identity.ErrMissingToken) {
				msg = "Access denied"
			}
			response.Abort(c, http.StatusUnauthorized, msg)
			return
		}

		setIdentity(c, member)
		c.Next()
	}
}

// OptionalIdentity never rejects: a bad or missing token means Guest.
func OptionalIdentity(resolver *identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		setIdentity(c, resolver.Resolve(c.Request.Context(), c.GetHeader("Authorization")))
		c.Next()
	}
}

func setIdentity(c *gin.Context, id domain.Identity) {
	c.Set(ctxIdentity, id)
	if m, ok := domain.AsMember(id); ok {
		c.Set(ctxUserID, m.ID)
		c.Set(ctxIsAdmin, m.IsAdmin)
	}
}

// CurrentIdentity returns the identity set by JWTAuth or OptionalIdentity.
func CurrentIdentity(c *gin.Context) domain.Identity {
	if v, ok := c.Get(ctxIdentity); ok {
		if id, ok := v.(domain.Identity); ok {
			return id
		}
	}
	return domain.Guest{}
}

// CurrentMember is CurrentIdentity narrowed to an authenticated user.
func CurrentMember(c *gin.Context) (domain.Member, bool) {
	return domain.AsMember(CurrentIdentity(c))
}
