// Package config provides configuration loading and validation for the
// FitBot application. Values come from a YAML file, BOT_* environment
// variables, and built-in defaults, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components of the
// FitBot system: logging, Telegram transport, database, external lookup
// services, and the task scheduler.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Lookup    LookupConfig    `mapstructure:"lookup"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoggerConfig controls the slog level and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot API credentials.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// LookupConfig configures the external nutrition, exercise, weather, and
// translation services. All lookups share a single bounded timeout.
type LookupConfig struct {
	OpenWeatherAPIKey string        `mapstructure:"openweather_api_key" validate:"required"`
	APINinjasKey      string        `mapstructure:"api_ninjas_key"      validate:"required"`
	Timeout           time.Duration `mapstructure:"timeout"             validate:"min=1s,max=1m"`
	NativeLanguage    string        `mapstructure:"native_language"     validate:"required,len=2"`
}

// SchedulerConfig configures scheduled background tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a single scheduled task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from the given YAML file, applies defaults
// and BOT_* environment overrides, and validates the result. A missing config
// file is not an error; missing required credentials are.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// viper wraps os.ErrNotExist differently when an explicit file is set
			if !strings.Contains(err.Error(), "no such file") {
				return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
			}
		}
		// Config file not found is okay, defaults and env vars still apply
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", false)

	// Required credentials default to empty so viper learns the keys and
	// BOT_* env overrides bind even without a config file. Validation still
	// rejects the empty values.
	v.SetDefault("telegram.token", "")
	v.SetDefault("lookup.openweather_api_key", "")
	v.SetDefault("lookup.api_ninjas_key", "")

	v.SetDefault("database.path", "fitbot.db")

	v.SetDefault("lookup.timeout", 10*time.Second)
	v.SetDefault("lookup.native_language", "ru")

	v.SetDefault("scheduler.tasks.daily_summary.enabled", true)
	v.SetDefault("scheduler.tasks.daily_summary.schedule", "0 21 * * *")
	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 4 * * *")
}
