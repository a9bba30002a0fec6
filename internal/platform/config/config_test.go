package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, warnings := fromLookup(envOf(nil))

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, 30, cfg.Privacy.RetentionDays)
	assert.Equal(t, 24, cfg.Privacy.AnonymizationDeadlineHours)
	assert.Equal(t, time.Hour, cfg.Privacy.SweepInterval)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Nil(t, cfg.EncryptionKey)
	assert.False(t, cfg.RateLimit.Disabled)
	assert.Equal(t, DefaultPublicPerMinute, cfg.RateLimit.PublicPerMinute)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "SESSION_SIGNING_KEY")
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, warnings := fromLookup(envOf(map[string]string{
		"WELLBUDDIE_ADDR":               ":9090",
		"SESSION_SIGNING_KEY":           "k",
		"KAFKA_BROKERS":                 "a:9092, b:9092,",
		"DATA_RETENTION_DAYS":           "7",
		"RETENTION_SWEEP_INTERVAL":      "15m",
		"ENCRYPTION_KEY":                strings.Repeat("ab", 32),
		"RATE_LIMIT_DISABLED":           "true",
		"RATE_LIMIT_SESSION_PER_MINUTE": "5",
	}))

	assert.Empty(t, warnings)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 7, cfg.Privacy.RetentionDays)
	assert.Equal(t, 15*time.Minute, cfg.Privacy.SweepInterval)
	assert.Len(t, cfg.EncryptionKey, 32)
	assert.True(t, cfg.RateLimit.Disabled)
	assert.Equal(t, 5, cfg.RateLimit.SessionPerMinute)
}

func TestFromLookup_InvalidValuesFallBack(t *testing.T) {
	cfg, warnings := fromLookup(envOf(map[string]string{
		"SESSION_SIGNING_KEY": "k",
		"DATA_RETENTION_DAYS": "-1",
		"SESSION_TTL":         "soon",
		"ENCRYPTION_KEY":      "abcd",
	}))

	assert.Equal(t, DefaultRetentionDays, cfg.Privacy.RetentionDays)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.Nil(t, cfg.EncryptionKey)
	assert.Len(t, warnings, 3)
	for _, w := range warnings {
		assert.NotContains(t, w, "abcd", "encryption key must not be echoed")
	}
}
