package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.upload_dir", "./uploads")
	v.SetDefault("db.url", "sqlite://./formward.db")
	v.SetDefault("db.max_open_conns", 8)
	v.SetDefault("db.max_idle_conns", 2)
	v.SetDefault("db.conn_max_idle_time", "5m")
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	// Bind environment variables with FW_ prefix
	v.SetEnvPrefix("FW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Security check: reject secrets in config files
	// Secrets must be environment-only per 12-factor principles
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			RequestTimeout:  v.GetDuration("server.request_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			CORSOrigins:     v.GetStringSlice("server.cors_origins"),
			UploadDir:       v.GetString("server.upload_dir"),
		},
		DB: DBConfig{
			URL:             v.GetString("db.url"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxIdleTime: v.GetDuration("db.conn_max_idle_time"),
			ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Addr: v.GetString("redis.addr"),
			DB:   v.GetInt("redis.db"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			From:     v.GetString("smtp.from"),
			To:       v.GetStringSlice("smtp.to"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port ranges, positive timeouts, and a non-empty
// database URL.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server.request_timeout must be positive, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", cfg.Server.ShutdownTimeout)
	}
	if strings.TrimSpace(cfg.DB.URL) == "" {
		return fmt.Errorf("db.url must not be empty")
	}
	if cfg.DB.MaxOpenConns < 1 {
		return fmt.Errorf("db.max_open_conns must be at least 1, got %d", cfg.DB.MaxOpenConns)
	}
	if cfg.DB.MaxIdleConns < 0 || cfg.DB.MaxIdleConns > cfg.DB.MaxOpenConns {
		return fmt.Errorf("db.max_idle_conns must be between 0 and db.max_open_conns, got %d", cfg.DB.MaxIdleConns)
	}
	if cfg.SMTP.Host != "" && (cfg.SMTP.Port <= 0 || cfg.SMTP.Port > 65535) {
		return fmt.Errorf("smtp.port must be between 1 and 65535, got %d", cfg.SMTP.Port)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug/info/warn/error, got %q", cfg.Log.Level)
	}
	return nil
}

// validateNoSecretsInConfig enforces environment-only secrets (12-factor principle).
func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.IsSet("jwt_secret") || v.IsSet("server.jwt_secret") || v.IsSet("auth.jwt_secret") {
		return fmt.Errorf("JWT secrets not allowed in config files (use FW_JWT_SECRET environment variable)")
	}
	if v.IsSet("smtp.password") {
		return fmt.Errorf("SMTP passwords not allowed in config files (use FW_SMTP_PASSWORD environment variable)")
	}
	if v.IsSet("admin_password_hash") || v.IsSet("auth.admin_password_hash") {
		return fmt.Errorf("admin credentials not allowed in config files (use FW_ADMIN_EMAIL and FW_ADMIN_PASSWORD_HASH environment variables)")
	}
	return nil
}
