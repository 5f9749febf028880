package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"civicreport-be/models"
	"civicreport-be/services"

	"github.com/gin-gonic/gin"
)

// AuthCookie is set by login and read here when no header is sent.
const AuthCookie = "auth_token"

const identityKey = "identity"

// IdentityResolver turns a bearer token into the caller's current identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*models.Identity, error)
}

// RequireAuth rejects requests without a valid token.
func RequireAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			abortResolve(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and
// otherwise lets the request through as anonymous.
func OptionalAuth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			identity, err := resolver.Resolve(c.Request.Context(), tokenString)
			switch {
			case err == nil:
				c.Set(identityKey, identity)
			case services.KindOf(err) != services.KindUnauthenticated:
				abortResolve(c, err)
				return
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by the auth middleware, or nil.
func IdentityFrom(c *gin.Context) *models.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*models.Identity)
	return identity
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

func abortResolve(c *gin.Context, err error) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) && svcErr.Kind == services.KindUnauthenticated {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": svcErr.Message})
		return
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}
