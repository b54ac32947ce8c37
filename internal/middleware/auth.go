package middleware

import (
	"net/http"
	"strings"

	"cavea/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserKey  = "currentUser"
	ContextTokenKey = "currentToken"
)

// AuthMiddleware resolves the bearer token to a user and stores both on the
// gin context. Requests without a valid token are rejected with 401.
func AuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		plaintext, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || plaintext == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		user, token, err := auth.Authenticate(c.Request.Context(), plaintext)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}
