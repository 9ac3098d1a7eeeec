package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptstash/promptstash/internal/access"
	"github.com/promptstash/promptstash/pkg/authtoken"
)

func setupAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(secret))
	r.GET("/me", func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no actor"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": string(actor.PlatformRole)})
	})
	return r
}

func TestAuth(t *testing.T) {
	const secret = "test-secret"

	t.Run("valid bearer token resolves actor", func(t *testing.T) {
		r := setupAuthRouter(secret)
		token, _, err := authtoken.Generate(secret, "u1", access.RoleSuperAdmin, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "u1")
		assert.Contains(t, w.Body.String(), "SUPER_ADMIN")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		r := setupAuthRouter(secret)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-bearer header rejected", func(t *testing.T) {
		r := setupAuthRouter(secret)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with other secret rejected", func(t *testing.T) {
		r := setupAuthRouter(secret)
		token, _, err := authtoken.Generate("other", "u1", access.RoleUser, time.Hour)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
