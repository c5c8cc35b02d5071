// Package config provides configuration management for the Formward service.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"
)

// ServerConfig holds configuration for the HTTP API service.
type ServerConfig struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
	UploadDir       string
}

// Config is the full service configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	SMTP   SMTPConfig
	Log    LogConfig
}

// DBConfig holds the database connection settings. The URL scheme selects
// the driver (sqlite:// or postgres://); the pool limits are passed through
// to db.Open.
type DBConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the assessment cache settings. An empty Addr disables
// caching.
type RedisConfig struct {
	Addr string
	DB   int
}

// SMTPConfig holds the lead notification mailer settings. An empty Host
// disables notifications. The password comes from FW_SMTP_PASSWORD, never
// from a config file.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	From     string
	To       []string
}

// LogConfig holds the structured logging settings.
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			UploadDir:       "./uploads",
		},
		DB: DBConfig{
			URL:             "sqlite://./formward.db",
			MaxOpenConns:    8,
			MaxIdleConns:    2,
			ConnMaxIdleTime: 5 * time.Minute,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "",
			DB:   0,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
		Log: LogConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// JWTSecret extracts the admin token signing secret from FW_JWT_SECRET.
// Format: base64-encoded, at least 32 bytes decoded. Secrets are
// environment-only; config files carrying one are rejected at load time.
func JWTSecret() ([]byte, error) {
	val := os.Getenv("FW_JWT_SECRET")
	if val == "" {
		return nil, fmt.Errorf("FW_JWT_SECRET not set")
	}
	secret, err := ParseSecret(val)
	if err != nil {
		return nil, fmt.Errorf("FW_JWT_SECRET: %w", err)
	}
	return secret, nil
}

// SMTPPassword returns the mailer password from FW_SMTP_PASSWORD, empty if
// unset.
func SMTPPassword() string {
	return os.Getenv("FW_SMTP_PASSWORD")
}

// AdminCredentials extracts the admin login from FW_ADMIN_EMAIL and
// FW_ADMIN_PASSWORD_HASH (bcrypt-format hash, opaque to this package).
func AdminCredentials() (email, passwordHash string, err error) {
	email = strings.TrimSpace(os.Getenv("FW_ADMIN_EMAIL"))
	passwordHash = os.Getenv("FW_ADMIN_PASSWORD_HASH")
	if email == "" || passwordHash == "" {
		return "", "", fmt.Errorf("FW_ADMIN_EMAIL and FW_ADMIN_PASSWORD_HASH must both be set")
	}
	return email, passwordHash, nil
}

// ParseSecret decodes a base64-encoded secret from an environment variable.
func ParseSecret(envValue string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(envValue))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 encoding: %w", err)
	}
	if len(decoded) < 32 {
		return nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(decoded))
	}
	return decoded, nil
}
