// Package middleware provides HTTP middleware functions.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/pkg/authtoken"
)

// actorKey is the gin context key the resolved actor is stored under.
const actorKey = "actor"

// Auth returns a middleware that resolves the requesting actor from the
// Bearer token and aborts unauthenticated requests. Every resource
// operation requires an actor; there is no anonymous access.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing authorization header")
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			unauthorized(c, "authorization header must use Bearer scheme")
			return
		}

		actor, err := authtoken.Parse(jwtSecret, tokenStr)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the actor resolved by the Auth middleware.
func ActorFromContext(c *gin.Context) (access.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return access.Actor{}, false
	}
	actor, ok := value.(access.Actor)
	return actor, ok
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
