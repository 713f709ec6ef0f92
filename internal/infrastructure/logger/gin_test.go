package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// requestEntry finds the single per-request entry among the recorded logs
func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "http request" {
			return entry
		}
	}
	t.Fatal("no request entry logged")
	return observer.LoggedEntry{}
}

func TestGinMiddleware_LogsOneEntryPerRequest(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/forms", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"forms": []string{"sales_order"}})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forms?detail=1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	entry := requestEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/forms", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "detail=1", fields["query"])
}

func TestGinMiddleware_ScopesLoggerToRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	var ctxRequestID string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-42")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/api/v1/forms", func(c *gin.Context) {
		// the scoped id must be visible to everything downstream,
		// the sql trace hook included
		ctxRequestID = GetRequestID(c.Request.Context())
		GetGinLogger(c).Info("listing forms")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/forms", nil))

	assert.Equal(t, "req-42", ctxRequestID)

	entry := requestEntry(t, recorded)
	assert.Equal(t, "req-42", entry.ContextMap()["request_id"])

	var handlerEntry *observer.LoggedEntry
	for _, e := range recorded.All() {
		if e.Message == "listing forms" {
			handlerEntry = &e
			break
		}
	}
	require.NotNil(t, handlerEntry, "handler entry should ride the scoped logger")
	assert.Equal(t, "req-42", handlerEntry.ContextMap()["request_id"])
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		core, recorded := observer.New(zapcore.InfoLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/status-check", func(c *gin.Context) {
			c.Status(tt.status)
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status-check", nil))

		entry := requestEntry(t, recorded)
		assert.Equal(t, tt.level, entry.Level, "status %d", tt.status)
	}
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/boom", func(c *gin.Context) {
		panic("unexpected state")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := recorded.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/boom", fields["path"])
	assert.Equal(t, "unexpected state", fields["panic"])
}

func TestRecovery_PrefersRequestScopedLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-7")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.Use(Recovery(zap.NewNop()))
	router.GET("/boom", func(c *gin.Context) {
		panic("unexpected state")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := recorded.FilterMessage("panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
}

func TestGetGinLogger_OutsideRequest(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
