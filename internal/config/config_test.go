package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/fitbot/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

const minimalConfig = `
telegram:
  token: "12345:token"
lookup:
  openweather_api_key: "ow-key"
  api_ninjas_key: "ninja-key"
`

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Logger.Level != "info" {
		t.Errorf("logger level = %q, want info", cfg.Logger.Level)
	}
	if cfg.Database.Path != "fitbot.db" {
		t.Errorf("database path = %q, want fitbot.db", cfg.Database.Path)
	}
	if cfg.Lookup.Timeout != 10*time.Second {
		t.Errorf("lookup timeout = %v, want 10s", cfg.Lookup.Timeout)
	}
	if cfg.Lookup.NativeLanguage != "ru" {
		t.Errorf("native language = %q, want ru", cfg.Lookup.NativeLanguage)
	}

	summary, ok := cfg.Scheduler.Tasks["daily_summary"]
	if !ok || !summary.Enabled || summary.Schedule != "0 21 * * *" {
		t.Errorf("daily_summary task defaults wrong: %+v", summary)
	}
	maintenance, ok := cfg.Scheduler.Tasks["sql_maintenance"]
	if !ok || !maintenance.Enabled || maintenance.Schedule != "0 4 * * *" {
		t.Errorf("sql_maintenance task defaults wrong: %+v", maintenance)
	}
}

func TestLoadConfigRejectsMissingToken(t *testing.T) {
	path := writeConfig(t, `
lookup:
  openweather_api_key: "ow-key"
  api_ninjas_key: "ninja-key"
`)

	if _, err := config.LoadConfig(path); err == nil {
		t.Fatal("expected validation error for missing telegram token")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name: "unknown log level",
			content: minimalConfig + `
logger:
  level: verbose
`,
		},
		{
			name: "timeout above maximum",
			content: `
telegram:
  token: "12345:token"
lookup:
  openweather_api_key: "ow-key"
  api_ninjas_key: "ninja-key"
  timeout: 5m
`,
		},
		{
			name: "native language not a two-letter code",
			content: `
telegram:
  token: "12345:token"
lookup:
  openweather_api_key: "ow-key"
  api_ninjas_key: "ninja-key"
  native_language: russian
`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			if _, err := config.LoadConfig(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeConfig(t, minimalConfig)

	t.Setenv("BOT_LOGGER_LEVEL", "debug")
	t.Setenv("BOT_DATABASE_PATH", "/tmp/override.db")

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("logger level = %q, want env override debug", cfg.Logger.Level)
	}
	if cfg.Database.Path != "/tmp/override.db" {
		t.Errorf("database path = %q, want env override", cfg.Database.Path)
	}
}

func TestLoadConfigMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "12345:token")
	t.Setenv("BOT_LOOKUP_OPENWEATHER_API_KEY", "ow-key")
	t.Setenv("BOT_LOOKUP_API_NINJAS_KEY", "ninja-key")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig with missing file: %v", err)
	}
	if cfg.Telegram.Token != "12345:token" {
		t.Errorf("token = %q, want env value", cfg.Telegram.Token)
	}
}
