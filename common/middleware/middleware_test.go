package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/YvonneBrian/ECommerce-Repawtly/common/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(zap.New(core)))
	r.GET("/state", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestID(c.Request.Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "fixed-id", w.Body.String())
	assert.Equal(t, "fixed-id", w.Header().Get("X-Request-ID"))
	entries := logs.FilterMessage("http_request").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "fixed-id", entries[0].ContextMap()[logger.RequestIDKey])
		assert.EqualValues(t, http.StatusOK, entries[0].ContextMap()["status"])
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(rate.Limit(0), 2)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_RetryAfterAndBody(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewRateLimiter(rate.Every(30*time.Second), 1)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":429,"kind":"rate_limited","message":"Too many requests, slow down."}`, w.Body.String())
}

func TestRateLimit_EvictsIdleClients(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewRateLimiter(rate.Limit(1), 1)
	l.now = func() time.Time { return now }

	ok, _ := l.reserve("10.0.0.1")
	assert.True(t, ok)
	now = now.Add(clientIdleTTL / 2)
	l.reserve("10.0.0.2")
	assert.Equal(t, 2, l.Tracked())

	now = now.Add(clientIdleTTL + time.Second)
	l.reserve("10.0.0.3")
	assert.Equal(t, 1, l.Tracked())
}

func TestMetricsDisabledPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(nil, "storefront"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4xx", statusCodeToRange(404))
	assert.Equal(t, "5xx", statusCodeToRange(503))
}
