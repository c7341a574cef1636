// Package config resolves runtime settings from the environment, with a YAML
// settings file as the fallback store for gateway credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Setting names shared by the environment and the settings file.
const (
	BraintreeEnvironment = "BraintreeEnvironment"
	BraintreeMerchantID  = "BraintreeMerchantId"
	BraintreePublicKey   = "BraintreePublicKey"
	BraintreePrivateKey  = "BraintreePrivateKey"
)

const defaultSettingsFile = "appsettings.yaml"

// Braintree holds the gateway credentials.
type Braintree struct {
	Environment string
	MerchantID  string
	PublicKey   string
	PrivateKey  string
}

type Config struct {
	Port          string
	DSN           string
	JWTSecret     string
	SessionSecret string
	CORSOrigins   []string
	LogLevel      string
	UploadDir     string
	BaseURL       string
	CartTTL       time.Duration // anonymous carts older than this are released
	SweepInterval time.Duration
	Braintree     Braintree
}

// Settings is the fallback configuration store.
type Settings map[string]string

// Get returns the named setting or "".
func (s Settings) Get(name string) string {
	return s[name]
}

// LoadSettings reads a flat YAML map of setting names to values. A missing file
// yields an empty store.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	settings := Settings{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return settings, nil
}

// ResolveBraintree reads the gateway credentials from the environment first.
// If any key is missing there, all four come from the settings store instead.
func ResolveBraintree(lookup func(string) (string, bool), settings Settings) Braintree {
	env := func(name string) (string, bool) {
		v, ok := lookup(name)
		return v, ok && v != ""
	}

	environment, _ := env(BraintreeEnvironment)
	merchantID, okMerchant := env(BraintreeMerchantID)
	publicKey, okPublic := env(BraintreePublicKey)
	privateKey, okPrivate := env(BraintreePrivateKey)

	if okMerchant && okPublic && okPrivate {
		return Braintree{
			Environment: environment,
			MerchantID:  merchantID,
			PublicKey:   publicKey,
			PrivateKey:  privateKey,
		}
	}

	return Braintree{
		Environment: settings.Get(BraintreeEnvironment),
		MerchantID:  settings.Get(BraintreeMerchantID),
		PublicKey:   settings.Get(BraintreePublicKey),
		PrivateKey:  settings.Get(BraintreePrivateKey),
	}
}

// Load builds the Config from the process environment. Call godotenv.Load first
// if a .env file should be honoured.
func Load() (*Config, error) {
	settingsPath := getenv("APP_SETTINGS_FILE", defaultSettingsFile)
	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		DSN:           os.Getenv("DB_DSN_PRIMARY"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "http://localhost:5173")),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		UploadDir:     getenv("UPLOAD_DIR", "./uploads"),
		BaseURL:       getenv("BASE_URL", "http://localhost:8080"),
		Braintree:     ResolveBraintree(os.LookupEnv, settings),
	}

	if cfg.CartTTL, err = getDuration("CART_TTL", 48*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SweepInterval, err = getDuration("CART_SWEEP_INTERVAL", time.Hour); err != nil {
		return nil, err
	}

	if cfg.DSN == "" {
		return nil, errors.New("DB_DSN_PRIMARY environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, reusing JWT_SECRET for session cookies")
		cfg.SessionSecret = cfg.JWTSecret
	}
	return cfg, nil
}

// SlogLevel maps LogLevel onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
