package config

import (
	"os"
	"testing"
	"time"
)

func TestJWTSecret(t *testing.T) {
	os.Unsetenv("FW_JWT_SECRET")

	t.Run("valid secret", func(t *testing.T) {
		os.Setenv("FW_JWT_SECRET", "dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		defer os.Unsetenv("FW_JWT_SECRET")

		secret, err := JWTSecret()
		if err != nil {
			t.Fatalf("JWTSecret failed: %v", err)
		}
		if len(secret) < 32 {
			t.Errorf("secret too short: %d bytes", len(secret))
		}
	})

	t.Run("unset", func(t *testing.T) {
		_, err := JWTSecret()
		if err == nil {
			t.Error("expected error when FW_JWT_SECRET unset")
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		os.Setenv("FW_JWT_SECRET", "not-valid-base64!!!")
		defer os.Unsetenv("FW_JWT_SECRET")

		_, err := JWTSecret()
		if err == nil {
			t.Error("expected error for invalid base64")
		}
	})

	t.Run("secret too short", func(t *testing.T) {
		os.Setenv("FW_JWT_SECRET", "c2hvcnQ=") // "short" in base64
		defer os.Unsetenv("FW_JWT_SECRET")

		_, err := JWTSecret()
		if err == nil {
			t.Error("expected error for secret < 32 bytes")
		}
	})
}

func TestAdminCredentials(t *testing.T) {
	os.Unsetenv("FW_ADMIN_EMAIL")
	os.Unsetenv("FW_ADMIN_PASSWORD_HASH")

	t.Run("both set", func(t *testing.T) {
		os.Setenv("FW_ADMIN_EMAIL", "admin@example.com")
		os.Setenv("FW_ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		defer os.Unsetenv("FW_ADMIN_EMAIL")
		defer os.Unsetenv("FW_ADMIN_PASSWORD_HASH")

		email, hash, err := AdminCredentials()
		if err != nil {
			t.Fatalf("AdminCredentials failed: %v", err)
		}
		if email != "admin@example.com" || hash == "" {
			t.Errorf("unexpected credentials: %q / %q", email, hash)
		}
	})

	t.Run("email missing", func(t *testing.T) {
		os.Setenv("FW_ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
		defer os.Unsetenv("FW_ADMIN_PASSWORD_HASH")

		_, _, err := AdminCredentials()
		if err == nil {
			t.Error("expected error when FW_ADMIN_EMAIL unset")
		}
	})
}

func TestLoadConfig(t *testing.T) {
	os.Unsetenv("FW_SERVER_HOST")
	os.Unsetenv("FW_SERVER_PORT")

	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Server.Host != "0.0.0.0" {
			t.Errorf("expected host 0.0.0.0, got %s", cfg.Server.Host)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("expected port 8080, got %d", cfg.Server.Port)
		}
		if cfg.Server.RequestTimeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", cfg.Server.RequestTimeout)
		}
		if cfg.DB.URL != "sqlite://./formward.db" {
			t.Errorf("expected sqlite default, got %s", cfg.DB.URL)
		}
		if cfg.Log.Level != "info" {
			t.Errorf("expected log level info, got %s", cfg.Log.Level)
		}
		if cfg.DB.MaxOpenConns != 8 || cfg.DB.MaxIdleConns != 2 {
			t.Errorf("expected pool defaults 8/2, got %d/%d", cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns)
		}
		if cfg.DB.ConnMaxLifetime != 30*time.Minute {
			t.Errorf("expected conn max lifetime 30m, got %v", cfg.DB.ConnMaxLifetime)
		}
	})

	t.Run("invalid pool limits", func(t *testing.T) {
		os.Setenv("FW_DB_MAX_OPEN_CONNS", "0")
		defer os.Unsetenv("FW_DB_MAX_OPEN_CONNS")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for zero max open conns")
		}
	})

	t.Run("idle exceeds open", func(t *testing.T) {
		os.Setenv("FW_DB_MAX_IDLE_CONNS", "50")
		defer os.Unsetenv("FW_DB_MAX_IDLE_CONNS")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for idle conns above open conns")
		}
	})

	t.Run("environment override", func(t *testing.T) {
		os.Setenv("FW_SERVER_PORT", "9999")
		os.Setenv("FW_SERVER_HOST", "127.0.0.1")
		defer os.Unsetenv("FW_SERVER_PORT")
		defer os.Unsetenv("FW_SERVER_HOST")

		cfg, err := LoadConfig("")
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if cfg.Server.Port != 9999 {
			t.Errorf("expected port 9999, got %d", cfg.Server.Port)
		}
		if cfg.Server.Host != "127.0.0.1" {
			t.Errorf("expected host 127.0.0.1, got %s", cfg.Server.Host)
		}
	})

	t.Run("invalid port range", func(t *testing.T) {
		os.Setenv("FW_SERVER_PORT", "70000")
		defer os.Unsetenv("FW_SERVER_PORT")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for port > 65535")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		os.Setenv("FW_LOG_LEVEL", "verbose")
		defer os.Unsetenv("FW_LOG_LEVEL")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for unknown log level")
		}
	})

	t.Run("empty db url", func(t *testing.T) {
		os.Setenv("FW_DB_URL", "   ")
		defer os.Unsetenv("FW_DB_URL")

		_, err := LoadConfig("")
		if err == nil {
			t.Error("expected error for empty db.url")
		}
	})
}

func TestParseSecret(t *testing.T) {
	t.Run("valid base64", func(t *testing.T) {
		secret, err := ParseSecret("dGVzdHNlY3JldDEyMzQ1Njc4OTBhYmNkZWZnaGlqa2xtbm9w")
		if err != nil {
			t.Fatalf("ParseSecret failed: %v", err)
		}
		if len(secret) < 32 {
			t.Errorf("secret too short: %d bytes", len(secret))
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := ParseSecret("not-valid-base64!!!")
		if err == nil {
			t.Error("expected error for invalid base64")
		}
	})

	t.Run("secret too short", func(t *testing.T) {
		_, err := ParseSecret("c2hvcnQ=")
		if err == nil {
			t.Error("expected error for secret < 32 bytes")
		}
	})
}
