package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every process-wide setting. It is loaded once at startup and
// passed by reference to the components that need it; nothing reads the
// environment after Load returns.
type Config struct {
	Port      int
	JWTSecret []byte

	LogLevel  string
	LogFormat string

	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Base URLs of sibling services, keyed by gateway path prefix.
	ServiceURLs map[string]string

	// TrustForwardedIdentity selects the identity resolution strategy:
	// true accepts the gateway's X-User-Id/X-User-Roles headers, false
	// re-verifies the bearer token on every request.
	TrustForwardedIdentity bool

	// ProxyTimeout bounds the gateway's primary backend calls; failures
	// there surface as 502/504. OutboundTimeout bounds fail-soft
	// cross-service calls; EnrichTimeout bounds per-item read-time
	// enrichment fetches.
	ProxyTimeout    time.Duration
	OutboundTimeout time.Duration
	EnrichTimeout   time.Duration
}

// Load reads configuration from the environment, with .env support for
// local development.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnvInt("PORT", 8080),
		JWTSecret:  []byte(getEnv("JWT_SECRET", "")),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "json"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "tau_journal"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		ServiceURLs: map[string]string{
			"auth":          getEnv("AUTH_URL", "http://auth:8000"),
			"users":         getEnv("USERS_URL", "http://users:8000"),
			"articles":      getEnv("ARTICLES_URL", "http://articles:8000"),
			"volumes":       getEnv("VOLUMES_URL", "http://articles:8000"),
			"reviews":       getEnv("REVIEWS_URL", "http://reviews:8000"),
			"editorial":     getEnv("EDITORIAL_URL", "http://editorial:8000"),
			"layout":        getEnv("LAYOUT_URL", "http://layout:8000"),
			"publication":   getEnv("PUBLICATION_URL", "http://publication:8000"),
			"notifications": getEnv("NOTIFICATIONS_URL", "http://notifications:8000"),
			"analytics":     getEnv("ANALYTICS_URL", "http://analytics:8000"),
			"files":         getEnv("FILES_URL", "http://fileprocessing:7000"),
		},
		TrustForwardedIdentity: getEnvBool("TRUST_FORWARDED_IDENTITY", true),
		ProxyTimeout:           getEnvDuration("PROXY_TIMEOUT", 10*time.Second),
		OutboundTimeout:        getEnvDuration("OUTBOUND_TIMEOUT", 10*time.Second),
		EnrichTimeout:          getEnvDuration("ENRICH_TIMEOUT", 5*time.Second),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535")
	}

	return cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
