package config

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "JWT_SECRET", "JWT_EXPIRES_IN", "BCRYPT_COST",
		"CORS_ALLOWED_ORIGINS", "RATE_LIMIT_MAX", "RATE_LIMIT_WINDOW", "TLS_CERT_FILE", "TLS_KEY_FILE", "TRUST_PROXY", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port: got %q, want 3000", cfg.Port)
	}
	if cfg.JWTSecret != DevJWTSecret || !cfg.JWTSecretDefaulted {
		t.Errorf("JWTSecret: got %q defaulted=%v", cfg.JWTSecret, cfg.JWTSecretDefaulted)
	}
	if cfg.JWTExpiresIn != time.Hour {
		t.Errorf("JWTExpiresIn: got %v, want 1h", cfg.JWTExpiresIn)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost: got %d, want 10", cfg.BcryptCost)
	}
	if cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 15*time.Minute {
		t.Errorf("rate limit: got %d per %v", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"*"}) {
		t.Errorf("CORSAllowedOrigins: got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy: got true, want false")
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Warnings: got %v", cfg.Warnings)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRES_IN", "30m")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8081" || cfg.JWTSecret != "s3cret" || cfg.JWTSecretDefaulted {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.JWTExpiresIn != 30*time.Minute {
		t.Errorf("JWTExpiresIn: got %v", cfg.JWTExpiresIn)
	}
	if cfg.RateLimitMax != 5 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("rate limit: got %d per %v", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("CORSAllowedOrigins: got %v, want %v", cfg.CORSAllowedOrigins, want)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("BCRYPT_COST", "abc")
	t.Setenv("JWT_EXPIRES_IN", "-1h")
	t.Setenv("RATE_LIMIT_MAX", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "soon")
	t.Setenv("TRUST_PROXY", "maybe")
	t.Setenv("SHUTDOWN_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BcryptCost != 10 || cfg.JWTExpiresIn != time.Hour {
		t.Errorf("fallbacks not applied: cost=%d ttl=%v", cfg.BcryptCost, cfg.JWTExpiresIn)
	}
	if cfg.RateLimitMax != 100 || cfg.RateLimitWindow != 15*time.Minute || cfg.TrustProxy {
		t.Errorf("fallbacks not applied: max=%d window=%v trust=%v", cfg.RateLimitMax, cfg.RateLimitWindow, cfg.TrustProxy)
	}

	want := []string{
		`invalid JWT_EXPIRES_IN "-1h", using 1h0m0s`,
		`invalid BCRYPT_COST "abc", using 10`,
		`invalid RATE_LIMIT_MAX "0", using 100`,
		`invalid RATE_LIMIT_WINDOW "soon", using 15m0s`,
		`invalid TRUST_PROXY "maybe", using false`,
	}
	if !reflect.DeepEqual(cfg.Warnings, want) {
		t.Errorf("Warnings:\n got %q\nwant %q", cfg.Warnings, want)
	}
}

func TestLoad_TrustProxy(t *testing.T) {
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy: got false, want true")
	}
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); !errors.Is(err, ErrInsecureJWTSecret) {
		t.Fatalf("Load: got %v, want ErrInsecureJWTSecret", err)
	}

	t.Setenv("JWT_SECRET", DevJWTSecret)
	if _, err := Load(); !errors.Is(err, ErrInsecureJWTSecret) {
		t.Fatalf("Load with dev secret: got %v, want ErrInsecureJWTSecret", err)
	}

	t.Setenv("JWT_SECRET", "a-real-secret")
	if _, err := Load(); err != nil {
		t.Fatalf("Load with real secret: %v", err)
	}
}

func TestValidate_TLSPair(t *testing.T) {
	cfg := Config{Env: "dev", JWTSecret: "x", TLSCertFile: "cert.pem"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when only TLS_CERT_FILE is set")
	}
	cfg.TLSKeyFile = "key.pem"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if !cfg.TLSEnabled() {
		t.Error("TLSEnabled: got false")
	}
}
