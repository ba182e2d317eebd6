package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/responsehub/backend/internal/auth"
	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/policy"
	"github.com/responsehub/backend/internal/services"
)

const (
	actorKey  = "actor"
	claimsKey = "claims"
)

// TokenAuthenticator resolves a bearer token to its claims.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthMiddleware rejects requests without a valid, unrevoked bearer token and
// stores the caller's identity on the request context.
func AuthMiddleware(authenticator TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		// Check if the header starts with "Bearer "
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := authenticator.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if services.IsKind(err, services.KindUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
				return
			}
			logger.WithError(err, "auth_middleware").Error("Token check failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			return
		}

		c.Set(claimsKey, claims)
		c.Set(actorKey, policy.Actor{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// CurrentActor returns the identity set by AuthMiddleware.
func CurrentActor(c *gin.Context) (policy.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return policy.Actor{}, false
	}
	actor, ok := value.(policy.Actor)
	return actor, ok
}

func CurrentClaims(c *gin.Context) (*auth.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok
}
