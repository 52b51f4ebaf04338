package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     string

	// Backend REST API the dashboard fronts
	BackendAPIURL   string
	BackendAPIToken string        // sent as a bearer token only when set
	BackendTimeout  time.Duration

	HistoryDays int
	DisplayCap  int
	CacheTTL    time.Duration
	Location    *time.Location

	RequireAuth     bool
	JWTSecret       string
	JWTIssuer       string
	DefaultOperator string

	RateLimit           string // ulule/limiter formatted, e.g. "60-M"
	AutoRefreshSchedule string // cron spec; empty disables the scheduler

	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`
	PostHogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PostHogHost     string `mapstructure:"POSTHOG_HOST"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BACKEND_API_URL", "http://localhost:8000")
	v.SetDefault("BACKEND_API_TOKEN", "")
	v.SetDefault("BACKEND_TIMEOUT", "15s")
	v.SetDefault("HISTORY_DAYS", 30)
	v.SetDefault("DISPLAY_CAP", 15)
	v.SetDefault("CACHE_TTL", "30s")
	v.SetDefault("TIMEZONE", "Local")
	v.SetDefault("REQUIRE_AUTH", false)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "printfleet-dashboard")
	v.SetDefault("DEFAULT_OPERATOR", "admin")
	v.SetDefault("RATE_LIMIT", "60-M")
	v.SetDefault("AUTO_REFRESH_SCHEDULE", "")
	v.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_HOST", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                v.GetString("PORT"),
		IsProduction:        v.GetBool("IS_PRODUCTION"),
		LogLevel:            strings.ToLower(v.GetString("LOG_LEVEL")),
		BackendAPIURL:       strings.TrimRight(v.GetString("BACKEND_API_URL"), "/"),
		BackendAPIToken:     v.GetString("BACKEND_API_TOKEN"),
		HistoryDays:         v.GetInt("HISTORY_DAYS"),
		DisplayCap:          v.GetInt("DISPLAY_CAP"),
		RequireAuth:         v.GetBool("REQUIRE_AUTH"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTIssuer:           v.GetString("JWT_ISSUER"),
		DefaultOperator:     v.GetString("DEFAULT_OPERATOR"),
		RateLimit:           v.GetString("RATE_LIMIT"),
		AutoRefreshSchedule: strings.TrimSpace(v.GetString("AUTO_REFRESH_SCHEDULE")),
		FrontendBaseURL:     v.GetString("FRONTEND_BASE_URL"),
		PostHogAPIKey:       v.GetString("POSTHOG_API_KEY"),
		PostHogHost:         v.GetString("POSTHOG_HOST"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.BackendAPIURL == "" {
		return nil, fmt.Errorf("BACKEND_API_URL must be set")
	}
	if cfg.HistoryDays <= 0 {
		log.Printf("Warning: Invalid value for HISTORY_DAYS (%d). Defaulting to 30.\n", cfg.HistoryDays)
		cfg.HistoryDays = 30
	}
	if cfg.DisplayCap <= 0 {
		log.Printf("Warning: Invalid value for DISPLAY_CAP (%d). Defaulting to 15.\n", cfg.DisplayCap)
		cfg.DisplayCap = 15
	}
	if cfg.DefaultOperator == "" {
		cfg.DefaultOperator = "admin"
	}

	var err error
	if cfg.BackendTimeout, err = parseDuration(v, "BACKEND_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = parseDuration(v, "CACHE_TTL", 30*time.Second); err != nil {
		return nil, err
	}

	tz := v.GetString("TIMEZONE")
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	if cfg.RequireAuth && cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set when REQUIRE_AUTH is enabled")
	}
	if cfg.BackendAPIToken == "" {
		log.Println("Warning: BACKEND_API_TOKEN not set. Requests to the backend are sent without credentials.")
	}

	return cfg, nil
}

// parseDuration reads key as a Go duration (e.g. "30s", "1m"). A zero duration is allowed.
func parseDuration(v *viper.Viper, key string, fallback time.Duration) (time.Duration, error) {
	raw := v.GetString(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s (%q): %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid value for %s (%q): must not be negative", key, raw)
	}
	return d, nil
}
