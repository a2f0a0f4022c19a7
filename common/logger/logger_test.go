package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("plain context", func(t *testing.T) {
		ctx := WithContext(context.Background(), "req-1")
		assert.Equal(t, "req-1", RequestID(ctx))
	})

	t.Run("missing", func(t *testing.T) {
		assert.Equal(t, "unknown", RequestID(context.Background()))
	})

	t.Run("gin context", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		c.Set(RequestIDKey, "req-2")
		assert.Equal(t, "req-2", RequestID(c))
	})
}

func TestInitializeWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := InitializeWithWriter("production", &buf)
	t.Cleanup(func() { Log = zap.NewNop() })

	Info(WithContext(context.Background(), "abc"), "cart item added", zap.String("item_id", "mock-1"))
	_ = l.Sync()

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "cart item added", line["msg"])
	assert.Equal(t, "abc", line[RequestIDKey])
	assert.Equal(t, "mock-1", line["item_id"])
}
