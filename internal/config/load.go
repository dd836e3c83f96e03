package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "PATIENTEDU"

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from the config file.
// An empty configFile looks for config.yaml in the working directory; a
// missing file is not an error.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// PATIENTEDU_SERVER_PORT -> server.port
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("content.origin", "./data")
	v.SetDefault("content.public_base", "./data")
	v.SetDefault("content.fetch_timeout_seconds", 15)

	v.SetDefault("admin.login_attempts_per_minute", 10)

	v.SetDefault("banner.rotation_interval_ms", 5000)

	v.SetDefault("export.system_title", "سامانه آموزش به بیمار")
	v.SetDefault("export.creator", "Patient Education System")
}

// bindEnvs registers keys that have no default so that AutomaticEnv can
// populate them during Unmarshal.
func bindEnvs(v *viper.Viper) {
	for _, key := range []string{
		"admin.login",
		"admin.password",
		"admin.password_hash",
		"database.url",
	} {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
}
