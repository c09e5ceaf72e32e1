// Package config loads runtime settings from the environment.
// File: config/config.go
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/hkdf"

	"fashion-registration/logger"
)

const devSessionSecret = "fashion-registration-dev-secret" // #nosec G101

// Config holds every setting the server needs.
type Config struct {
	Port            string
	ApplicationURL  string
	Env             string
	SessionSecret   string
	TemplatesDir    string
	StaticDir       string
	LogDir          string
	ExtendedForm    bool
	MetricsEnabled  bool
	MetricsNS       string
	XRayEnabled     bool
	FormIdleTimeout time.Duration
	AllowFrameFrom  string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env is optional; the environment may already be populated.
		logger.Debug.Printf("Load: no .env file loaded: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:           valueOr(getenv("PORT"), "8080"),
		ApplicationURL: strings.TrimRight(valueOr(getenv("APPLICATION_URL"), "http://localhost:8080"), "/"),
		Env:            valueOr(getenv("APP_ENV"), "development"),
		SessionSecret:  valueOr(getenv("SESSION_SECRET"), devSessionSecret),
		TemplatesDir:   valueOr(getenv("TEMPLATES_DIR"), "templates"),
		StaticDir:      valueOr(getenv("STATIC_DIR"), "static"),
		MetricsNS:      valueOr(getenv("METRICS_NAMESPACE"), "FashionRegistration"),
		AllowFrameFrom: getenv("ALLOW_FRAME_FROM"),
	}

	// LOG_DIR=none logs to stdout only.
	cfg.LogDir = valueOr(getenv("LOG_DIR"), "logs")
	if cfg.LogDir == "none" {
		cfg.LogDir = ""
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid PORT %q", cfg.Port)
	}

	if cfg.ExtendedForm, err = parseBool(getenv, "EXTENDED_FORM"); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled, err = parseBool(getenv, "METRICS_ENABLED"); err != nil {
		return nil, err
	}
	if cfg.XRayEnabled, err = parseBool(getenv, "XRAY_ENABLED"); err != nil {
		return nil, err
	}

	cfg.FormIdleTimeout = 30 * time.Minute
	if raw := getenv("FORM_IDLE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid FORM_IDLE_TIMEOUT %q", raw)
		}
		cfg.FormIdleTimeout = d
	}

	if cfg.IsProduction() && cfg.SessionSecret == devSessionSecret {
		return nil, errors.New("SESSION_SECRET must be set in production")
	}
	return cfg, nil
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RegistrationURL is the absolute URL of the registration page.
func (c *Config) RegistrationURL() string {
	return c.ApplicationURL + "/registration"
}

// SessionKeys derives the cookie authentication (32 bytes) and encryption
// (32 bytes, AES-256) keys from SessionSecret using HKDF-SHA256.
func (c *Config) SessionKeys() (authKey, encKey []byte, err error) {
	kdf := hkdf.New(sha256.New, []byte(c.SessionSecret), nil, []byte("fashion-registration session"))

	authKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, authKey); err != nil {
		return nil, nil, fmt.Errorf("derive session auth key: %w", err)
	}
	encKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, encKey); err != nil {
		return nil, nil, fmt.Errorf("derive session encryption key: %w", err)
	}
	return authKey, encKey, nil
}

// ------------------- helpers -------------------

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func parseBool(getenv func(string) string, key string) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
