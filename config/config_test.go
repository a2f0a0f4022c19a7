package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.PersistenceBackend)
	assert.Equal(t, "cart", cfg.CartKey)
	assert.Equal(t, 1500*time.Millisecond, cfg.SettlementDelay)
	assert.Equal(t, 65.00, cfg.ShippingFee)
	assert.Equal(t, 25.99, cfg.DefaultPrice)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PERSISTENCE_BACKEND", "Redis")
	t.Setenv("SETTLEMENT_DELAY", "10ms")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("SHIPPING_FEE", "12.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.PersistenceBackend)
	assert.Equal(t, 10*time.Millisecond, cfg.SettlementDelay)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 12.5, cfg.ShippingFee)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name, key, val string
	}{
		{"unknown backend", "PERSISTENCE_BACKEND", "postgres"},
		{"bad duration", "SETTLEMENT_DELAY", "soon"},
		{"zero delay", "SETTLEMENT_DELAY", "0s"},
		{"bad fee", "SHIPPING_FEE", "free"},
		{"bad burst", "RATE_LIMIT_BURST", "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
