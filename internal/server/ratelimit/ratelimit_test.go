package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_DisabledPassesEverything(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("client-a"))
	}
}

func TestAllow_BurstExhaustion(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, RequestsPerMinute: 60, Burst: 2})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))

	// Separate clients have separate buckets.
	assert.True(t, l.Allow("client-b"))
}

func TestAllow_Refills(t *testing.T) {
	l := NewLimiter(&Config{Enabled: true, RequestsPerMinute: 60, Burst: 1})
	defer l.Stop()

	assert.True(t, l.Allow("client-a"))
	assert.False(t, l.Allow("client-a"))

	l.mu.Lock()
	l.buckets["client-a"].lastRefill = time.Now().Add(-2 * time.Second)
	l.mu.Unlock()

	assert.True(t, l.Allow("client-a"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ATS_RATE_LIMIT_ENABLED", "")
	t.Setenv("ATS_RATE_LIMIT_RPM", "")
	t.Setenv("ATS_RATE_LIMIT_BURST", "")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 120, cfg.RequestsPerMinute)
	assert.Equal(t, 20, cfg.Burst)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("ATS_RATE_LIMIT_ENABLED", "true")
	t.Setenv("ATS_RATE_LIMIT_RPM", "30")
	t.Setenv("ATS_RATE_LIMIT_BURST", "5")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 30, cfg.RequestsPerMinute)
	assert.Equal(t, 5, cfg.Burst)
}
