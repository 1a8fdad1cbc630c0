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

// Settings is the runtime configuration of the service.
type Settings struct {
	DatabaseURL   string
	JWTSecret     string
	Port          string
	LogLevel      string
	LogFormat     string
	SecureCookies bool
	GCSBucket     string
	GCSUploadPath string
	UserCacheTTL  time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load() (Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Settings{}, fmt.Errorf("loading .env file: %w", err)
	}

	s := Settings{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Port:          Config("PORT", "3000"),
		LogLevel:      Config("LOG_LEVEL", "info"),
		LogFormat:     Config("LOG_FORMAT", "json"),
		GCSBucket:     os.Getenv("GCS_BUCKET_NAME"),
		GCSUploadPath: Config("GCS_UPLOAD_PATH", "images/"),
	}

	secure, err := strconv.ParseBool(Config("SECURE_COOKIES", "false"))
	if err != nil {
		return Settings{}, fmt.Errorf("SECURE_COOKIES: %w", err)
	}
	s.SecureCookies = secure

	ttl, err := time.ParseDuration(Config("USER_CACHE_TTL", "5m"))
	if err != nil {
		return Settings{}, fmt.Errorf("USER_CACHE_TTL: %w", err)
	}
	s.UserCacheTTL = ttl

	var missing []string
	if s.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if s.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Settings{}, fmt.Errorf("%s not set", strings.Join(missing, ", "))
	}

	return s, nil
}

// Config returns the value of envVar, or fallback when it is unset or empty.
func Config(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}
