package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextClaimsKey is where Middleware stores verified claims in the gin context.
const ContextClaimsKey = "claims"

// Middleware enforces a bearer session token on protected routes. Verified
// claims are stored in the context for handlers.
func Middleware(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := svc.VerifyToken(BearerToken(c.GetHeader("Authorization")))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "Invalid token"})
			return
		}
		c.Set(ContextClaimsKey, *claims)
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header, or "".
func BearerToken(header string) string {
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("bearer "):])
}
