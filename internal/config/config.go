package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is the well-known secret used when JWT_SECRET is unset outside prod.
// It must never sign tokens in production.
const DevJWTSecret = "dev-secret"

var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value when ENV=prod")

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	JWTSecret string
	// JWTSecretDefaulted is true when JWT_SECRET was unset and DevJWTSecret is in use.
	JWTSecretDefaulted bool

	// JWTExpiresIn is the token lifetime (default 1h). Set via JWT_EXPIRES_IN, e.g. "1h" or "90m".
	JWTExpiresIn time.Duration

	// BcryptCost is the bcrypt work factor for new password hashes (default 10).
	BcryptCost int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is one of debug, info (default), warn, error.
	LogLevel string

	// CORSAllowedOrigins is the list of origins allowed for CORS. Set via CORS_ALLOWED_ORIGINS
	// (comma-separated). Defaults to "*" (any origin).
	CORSAllowedOrigins []string

	// RateLimitMax requests are allowed per client every RateLimitWindow (default 100 per 15m).
	RateLimitMax    int
	RateLimitWindow time.Duration

	// TrustProxy makes the API take the client address from X-Forwarded-For
	// and X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxy bool

	ShutdownTimeout time.Duration

	// Warnings lists values that were ignored in favour of a default.
	Warnings []string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists. Variables already set in the
// environment take precedence over the file.
func Load() (Config, error) {
	_ = godotenv.Load()

	secret := os.Getenv("JWT_SECRET")
	cfg := Config{
		Port: getEnv("PORT", "3000"),
		Env:  getEnv("ENV", "dev"),

		JWTSecret:          secret,
		JWTSecretDefaulted: secret == "",

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}
	cfg.JWTExpiresIn = cfg.envDuration("JWT_EXPIRES_IN", time.Hour)
	cfg.BcryptCost = cfg.envInt("BCRYPT_COST", 10)
	cfg.RateLimitMax = cfg.envInt("RATE_LIMIT_MAX", 100)
	cfg.RateLimitWindow = cfg.envDuration("RATE_LIMIT_WINDOW", 15*time.Minute)
	cfg.ShutdownTimeout = cfg.envDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	cfg.TrustProxy = cfg.envBool("TRUST_PROXY", false)

	if cfg.JWTSecretDefaulted {
		cfg.JWTSecret = DevJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate refuses configurations that must not start.
func (c Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DevJWTSecret) {
		return ErrInsecureJWTSecret
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return fmt.Errorf("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "prod"
}

// TLSEnabled reports whether both TLS files are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c *Config) warnInvalid(key, value string, fallback any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf("invalid %s %q, using %v", key, value, fallback))
}

func (c *Config) envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.warnInvalid(key, v, fallback)
		return fallback
	}
	return n
}

func (c *Config) envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		c.warnInvalid(key, v, fallback)
		return fallback
	}
	return d
}

func (c *Config) envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		c.warnInvalid(key, v, fallback)
		return fallback
	}
	return b
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
