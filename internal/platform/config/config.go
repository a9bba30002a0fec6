package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults mirror the published privacy policy of the original app.
const (
	DefaultAddr                       = ":8080"
	DefaultRetentionDays              = 30
	DefaultAnonymizationDeadlineHours = 24
	DefaultSweepInterval              = time.Hour
	DefaultSessionTTL                 = 24 * time.Hour
	DefaultAnalyticsTopic             = "wellbuddie.analytics.assessments"
	DefaultPublicPerMinute            = 60
	DefaultSessionPerMinute           = 120

	devSigningKey = "dev-session-key-change-in-production"
)

// Server captures process level configuration.
type Server struct {
	Addr     string
	LogLevel string

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig

	SessionSigningKey string
	SessionTTL        time.Duration

	// EncryptionKey is nil when ENCRYPTION_KEY is unset; sealing is then disabled.
	EncryptionKey []byte

	Privacy   PrivacyConfig
	RateLimit RateLimitConfig
}

// RateLimitConfig sets per-minute request budgets. Public routes are keyed by
// client IP, session routes by subject.
type RateLimitConfig struct {
	Disabled bool
	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	TrustProxyHeaders bool
	PublicPerMinute   int
	SessionPerMinute  int
}

// RedisConfig configures the optional Redis backing for consent and history.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional analytics mirror.
type KafkaConfig struct {
	Brokers        []string
	AnalyticsTopic string
}

// Enabled reports whether any broker is configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

// PrivacyConfig holds retention and anonymization settings.
type PrivacyConfig struct {
	RetentionDays              int
	AnonymizationDeadlineHours int
	SweepInterval              time.Duration
	RegionMapPath              string
}

// FromEnv builds a Server config from environment variables. Invalid values
// fall back to defaults; the returned warnings say which.
func FromEnv() (Server, []string) {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) (Server, []string) {
	var warnings []string
	warn := func(key, value string, err error) {
		warnings = append(warnings, fmt.Sprintf("%s=%q ignored: %v", key, value, err))
	}

	intVar := func(key string, def int) int {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			if err == nil {
				err = fmt.Errorf("must be positive")
			}
			warn(key, raw, err)
			return def
		}
		return n
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			if err == nil {
				err = fmt.Errorf("must be positive")
			}
			warn(key, raw, err)
			return def
		}
		return d
	}
	boolVar := func(key string) bool {
		raw := strings.TrimSpace(getenv(key))
		if raw == "" {
			return false
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			warn(key, raw, err)
			return false
		}
		return b
	}
	stringVar := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Server{
		Addr:        stringVar("WELLBUDDIE_ADDR", DefaultAddr),
		LogLevel:    stringVar("LOG_LEVEL", "info"),
		DatabaseURL: stringVar("DATABASE_URL", ""),
		Redis: RedisConfig{
			URL:          stringVar("REDIS_URL", ""),
			PoolSize:     intVar("REDIS_POOL_SIZE", 10),
			MinIdleConns: intVar("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationVar("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationVar("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationVar("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        splitList(getenv("KAFKA_BROKERS")),
			AnalyticsTopic: stringVar("KAFKA_ANALYTICS_TOPIC", DefaultAnalyticsTopic),
		},
		SessionSigningKey: stringVar("SESSION_SIGNING_KEY", devSigningKey),
		SessionTTL:        durationVar("SESSION_TTL", DefaultSessionTTL),
		Privacy: PrivacyConfig{
			RetentionDays:              intVar("DATA_RETENTION_DAYS", DefaultRetentionDays),
			AnonymizationDeadlineHours: intVar("ANONYMIZATION_DEADLINE_HOURS", DefaultAnonymizationDeadlineHours),
			SweepInterval:              durationVar("RETENTION_SWEEP_INTERVAL", DefaultSweepInterval),
			RegionMapPath:              stringVar("REGION_MAP_PATH", ""),
		},
		RateLimit: RateLimitConfig{
			PublicPerMinute:  intVar("RATE_LIMIT_PUBLIC_PER_MINUTE", DefaultPublicPerMinute),
			SessionPerMinute: intVar("RATE_LIMIT_SESSION_PER_MINUTE", DefaultSessionPerMinute),
		},
	}

	cfg.RateLimit.Disabled = boolVar("RATE_LIMIT_DISABLED")
	cfg.RateLimit.TrustProxyHeaders = boolVar("RATE_LIMIT_TRUST_PROXY")

	if cfg.SessionSigningKey == devSigningKey {
		warnings = append(warnings, "SESSION_SIGNING_KEY unset, using development key")
	}

	if raw := strings.TrimSpace(getenv("ENCRYPTION_KEY")); raw != "" {
		key, err := hex.DecodeString(raw)
		switch {
		case err != nil:
			warn("ENCRYPTION_KEY", "<redacted>", err)
		case len(key) != 32:
			warn("ENCRYPTION_KEY", "<redacted>", fmt.Errorf("want 32 bytes, got %d", len(key)))
		default:
			cfg.EncryptionKey = key
		}
	}

	return cfg, warnings
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
