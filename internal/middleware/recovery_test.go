package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func recoveringRouter(t *testing.T) (*gin.Engine, func() []zapcore.Level) {
	t.Helper()
	logger, logs := observedLogger()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logger))
	r.GET("/panic", func(c *gin.Context) {
		panic("favorite counter went negative")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	levels := func() []zapcore.Level {
		var out []zapcore.Level
		for _, e := range logs.TakeAll() {
			out = append(out, e.Level)
		}
		return out
	}
	return r, levels
}

func TestRecovery(t *testing.T) {
	t.Run("panic becomes a 500 with the error envelope", func(t *testing.T) {
		r, levels := recoveringRouter(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)

		var body struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.Equal(t, "internal server error", body.Error.Message)

		assert.Equal(t, []zapcore.Level{zapcore.ErrorLevel}, levels())
	})

	t.Run("requests without a panic pass through", func(t *testing.T) {
		r, levels := recoveringRouter(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, levels())
	})

	t.Run("router survives a panic", func(t *testing.T) {
		r, _ := recoveringRouter(t)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)

		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
