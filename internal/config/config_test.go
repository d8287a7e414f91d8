package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  session_ttl: "45m"

telegram:
  bot_token: "123456:test-token"
  webhook_secret: "hook-secret"
  consent_version: "v2"
`

func TestLoad_FromEnvOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	// Explicit CONFIG_PATH pointing at a missing file must fail.
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoad_Defaults(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", writeYAML(t, t.TempDir(), validYAML))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port: got %d, want 9090", cfg.Server.Port)
	}
	if cfg.Auth.SessionTTL != 45*time.Minute {
		t.Errorf("auth.session_ttl: got %v, want 45m", cfg.Auth.SessionTTL)
	}
	if cfg.Telegram.ConsentVersion != "v2" {
		t.Errorf("telegram.consent_version: got %q, want v2", cfg.Telegram.ConsentVersion)
	}
	// Untouched fields keep env-defaults.
	if cfg.Auth.JWTIssuer != "minicrm" {
		t.Errorf("auth.jwt_issuer default: got %q", cfg.Auth.JWTIssuer)
	}
	if cfg.Telegram.InitDataTTL != time.Hour {
		t.Errorf("telegram.init_data_ttl default: got %v", cfg.Telegram.InitDataTTL)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", writeYAML(t, t.TempDir(), validYAML))
	t.Setenv("SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("env should win over yaml: got %d, want 7070", cfg.Server.Port)
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	validEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "too-short")
	t.Setenv("CONFIG_PATH", writeYAML(t, t.TempDir(), `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"
auth:
  jwt_secret: "too-short"
`))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
}

func TestValidate_WebhookSecretWithoutBotToken(t *testing.T) {
	cfg := Config{}
	cfg.Auth.JWTSecret = "this-is-a-very-long-jwt-secret-for-testing-32+"
	cfg.Auth.SessionTTL = time.Hour
	cfg.Auth.BcryptCost = 10
	cfg.Telegram.InitDataTTL = time.Hour
	cfg.Telegram.WebhookSecret = "hook-secret"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for webhook secret without bot token")
	}
}

func TestValidate_BcryptCostRange(t *testing.T) {
	cfg := Config{}
	cfg.Auth.JWTSecret = "this-is-a-very-long-jwt-secret-for-testing-32+"
	cfg.Auth.SessionTTL = time.Hour
	cfg.Telegram.InitDataTTL = time.Hour
	cfg.Auth.BcryptCost = 99

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range bcrypt cost")
	}
}
