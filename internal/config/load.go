package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load,
// e.g. NOTEA_SERVER_PORT.
const EnvPrefix = "NOTEA"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches for
// config.yaml in the working directory and in $HOME/.notea.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.notea")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing file is only an error when it was asked for explicitly
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// A variable that is set but empty overrides the default.
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags and cross-field rules.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.SRS.MinEaseFactor > 0 && cfg.SRS.MaxEaseFactor > 0 && cfg.SRS.MinEaseFactor > cfg.SRS.MaxEaseFactor {
		return fmt.Errorf("config validation failed: srs.min_ease_factor %.2f exceeds srs.max_ease_factor %.2f",
			cfg.SRS.MinEaseFactor, cfg.SRS.MaxEaseFactor)
	}

	if err := cfg.SRS.Params().Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// setDefaults registers every key so that AutomaticEnv can override it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.url", "")
	v.SetDefault("database.sqlite_path", "notea.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", 10*time.Second)

	for _, key := range []string{
		"every_2_days_interval_days",
		"weekly_interval_days",
		"biweekly_interval_days",
		"mastered_interval_days",
		"min_ease_factor",
		"max_ease_factor",
		"hard_ease_factor_adjustment",
		"medium_ease_factor_adjustment",
		"easy_ease_factor_adjustment",
		"first_review_medium_interval",
		"first_review_easy_interval",
		"second_review_medium_interval",
		"second_review_easy_interval",
		"lapse_interval",
	} {
		v.SetDefault("srs."+key, 0)
	}

	v.SetDefault("review.seed", 0)
}
