package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cryptoupi/internal/authz"
)

func bearerToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AdminAuth accepts admin panel tokens only; phone identity tokens are
// rejected even though they carry a valid signature.
func AdminAuth(issuer *authz.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		claims, err := issuer.Parse(tokenStr)
		if err != nil || claims.Kind != authz.KindAdmin || !authz.IsKnownRole(claims.Role) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(authz.CtxSubject, claims.Subject)
		c.Set(authz.CtxRole, claims.Role)
		c.Next()
	}
}
