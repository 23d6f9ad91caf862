package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardlink/internal/core/auth"
	"cardlink/internal/domain"
	resp "cardlink/internal/transport/http/response"
)

const (
	keyUserID = "userId"
	keyRole   = "role"
)

// AuthJWT requires a Bearer token and optionally a role. The principal is
// stored on the context for Principal() below.
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		c.Set(keyUserID, claims.UID)
		c.Set(keyRole, claims.Role)
		c.Next()
	}
}

// AuthOptional attaches the principal when a valid token is present and
// lets anonymous requests through. Reads on public cards work either way.
func AuthOptional(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if strings.HasPrefix(ah, "Bearer ") {
			if claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer ")); err == nil {
				c.Set(keyUserID, claims.UID)
				c.Set(keyRole, claims.Role)
			}
		}
		c.Next()
	}
}

// Principal extracts the caller identity; nil means anonymous.
func Principal(c *gin.Context) *domain.Principal {
	uid := c.GetString(keyUserID)
	if uid == "" {
		return nil
	}
	return &domain.Principal{ID: uid, Role: c.GetString(keyRole)}
}
