package config

import (
	"time"

	"github.com/noteaapp/notea/internal/domain/srs"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	SRS      SRSConfig      `mapstructure:"srs"`
	Review   ReviewConfig   `mapstructure:"review"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL             string        `mapstructure:"url" validate:"required_if=Driver postgres"`
	SQLitePath      string        `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// RedisConfig configures the distributed review lock. When disabled, reviews
// are serialized in-process.
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr" validate:"required_if=Enabled true"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db" validate:"gte=0"`
	LockTTL  time.Duration `mapstructure:"lock_ttl" validate:"gt=0"`
}

// SRSConfig overrides scheduling parameters. Zero values keep the defaults.
type SRSConfig struct {
	Every2DaysIntervalDays int `mapstructure:"every_2_days_interval_days" validate:"gte=0"`
	WeeklyIntervalDays     int `mapstructure:"weekly_interval_days" validate:"gte=0"`
	BiweeklyIntervalDays   int `mapstructure:"biweekly_interval_days" validate:"gte=0"`
	MasteredIntervalDays   int `mapstructure:"mastered_interval_days" validate:"gte=0"`

	MinEaseFactor float64 `mapstructure:"min_ease_factor" validate:"omitempty,gte=1.3,lte=2.5"`
	MaxEaseFactor float64 `mapstructure:"max_ease_factor" validate:"omitempty,gte=1.3,lte=2.5"`

	HardEaseFactorAdjustment   float64 `mapstructure:"hard_ease_factor_adjustment"`
	MediumEaseFactorAdjustment float64 `mapstructure:"medium_ease_factor_adjustment"`
	EasyEaseFactorAdjustment   float64 `mapstructure:"easy_ease_factor_adjustment"`

	FirstReviewMediumInterval  int `mapstructure:"first_review_medium_interval" validate:"gte=0"`
	FirstReviewEasyInterval    int `mapstructure:"first_review_easy_interval" validate:"gte=0"`
	SecondReviewMediumInterval int `mapstructure:"second_review_medium_interval" validate:"gte=0"`
	SecondReviewEasyInterval   int `mapstructure:"second_review_easy_interval" validate:"gte=0"`
	LapseInterval              int `mapstructure:"lapse_interval" validate:"gte=0"`
}

// Params builds scheduling parameters from the configured overrides.
func (c SRSConfig) Params() *srs.Params {
	return srs.NewParams(srs.ParamsConfig{
		Every2DaysIntervalDays:     c.Every2DaysIntervalDays,
		WeeklyIntervalDays:         c.WeeklyIntervalDays,
		BiweeklyIntervalDays:       c.BiweeklyIntervalDays,
		MasteredIntervalDays:       c.MasteredIntervalDays,
		MinEaseFactor:              c.MinEaseFactor,
		MaxEaseFactor:              c.MaxEaseFactor,
		HardEaseFactorAdjustment:   c.HardEaseFactorAdjustment,
		MediumEaseFactorAdjustment: c.MediumEaseFactorAdjustment,
		EasyEaseFactorAdjustment:   c.EasyEaseFactorAdjustment,
		FirstReviewMediumInterval:  c.FirstReviewMediumInterval,
		FirstReviewEasyInterval:    c.FirstReviewEasyInterval,
		SecondReviewMediumInterval: c.SecondReviewMediumInterval,
		SecondReviewEasyInterval:   c.SecondReviewEasyInterval,
		LapseInterval:              c.LapseInterval,
	})
}

// ReviewConfig contains review session settings.
type ReviewConfig struct {
	// Seed fixes the card picker's random sequence. Zero picks a random seed.
	Seed uint64 `mapstructure:"seed"`
}
