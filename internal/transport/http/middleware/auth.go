package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/iamasit07/5-in-a-row/backend/internal/domain"
	"github.com/iamasit07/5-in-a-row/backend/pkg/httputil"
)

const UsernameKey = "username"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// Auth resolves the request's token to a username and stores it under
// UsernameKey.
func Auth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := httputil.GetTokenFromRequest(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			if domain.KindOf(err) == domain.KindAuth {
				httputil.ClearAuthCookie(c.Writer)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(UsernameKey, user)
		c.Next()
	}
}

// Username returns the user Auth stored on the context.
func Username(c *gin.Context) string {
	return c.GetString(UsernameKey)
}

// AdminToken admits requests carrying the X-Admin-Token header. With no
// token configured every request is refused.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
