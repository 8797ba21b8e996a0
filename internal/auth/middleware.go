package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const contextKeyPrincipal = "principal"

// Principal is the authenticated caller, resolved from the access token. It
// is passed explicitly through the request context; handlers never reach for
// ambient identity.
type Principal struct {
	UserID   int64
	Username string
}

// PrincipalFromContext returns the principal set by RequireToken. The zero
// Principal means the middleware did not run.
func PrincipalFromContext(c *gin.Context) Principal {
	v, ok := c.Get(contextKeyPrincipal)
	if !ok {
		return Principal{}
	}
	p, ok := v.(Principal)
	if !ok {
		return Principal{}
	}
	return p
}

// RequireToken returns a middleware that validates the Bearer access token
// and sets the principal in context. Missing or invalid tokens get 401.
func RequireToken(m *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		claims, err := m.ValidateAccessToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Set(contextKeyPrincipal, Principal{UserID: claims.UserID, Username: claims.Username})
		c.Next()
	}
}
