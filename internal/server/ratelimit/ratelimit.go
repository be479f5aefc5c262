// Package ratelimit implements per-client token bucket rate limiting.
package ratelimit

import (
	"os"
	"strconv"
	"sync"
	"time"
)

// Config controls limiter behavior.
type Config struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
}

// LoadConfig reads limiter settings from the environment.
// ATS_RATE_LIMIT_ENABLED defaults to false; ATS_RATE_LIMIT_RPM and
// ATS_RATE_LIMIT_BURST default to 120 and 20.
func LoadConfig() *Config {
	cfg := &Config{
		Enabled:           os.Getenv("ATS_RATE_LIMIT_ENABLED") == "true",
		RequestsPerMinute: 120,
		Burst:             20,
	}
	if v, err := strconv.Atoi(os.Getenv("ATS_RATE_LIMIT_RPM")); err == nil && v > 0 {
		cfg.RequestsPerMinute = v
	}
	if v, err := strconv.Atoi(os.Getenv("ATS_RATE_LIMIT_BURST")); err == nil && v > 0 {
		cfg.Burst = v
	}
	return cfg
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter tracks a token bucket per client.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     *Config
	done    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(cfg *Config) *Limiter {
	l := &Limiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		done:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether the client may make another request now.
func (l *Limiter) Allow(clientID string) bool {
	if !l.cfg.Enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: float64(l.cfg.Burst), lastRefill: now}
		l.buckets[clientID] = b
	}

	refillRate := float64(l.cfg.RequestsPerMinute) / 60.0
	b.tokens += now.Sub(b.lastRefill).Seconds() * refillRate
	if b.tokens > float64(l.cfg.Burst) {
		b.tokens = float64(l.cfg.Burst)
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.done)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for id, b := range l.buckets {
				if b.lastRefill.Before(cutoff) {
					delete(l.buckets, id)
				}
			}
			l.mu.Unlock()
		}
	}
}
