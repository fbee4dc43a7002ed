// Package config loads application configuration from a file and the
// environment. Environment variables override file values; the prefix is
// VYAPARI_ with dots replaced by underscores (VYAPARI_DB_DSN and so on).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application configuration tree.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	DB       DBConfig       `mapstructure:"db"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Sales    SalesConfig    `mapstructure:"sales"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Log      LogConfig      `mapstructure:"log"`
}

// AppConfig holds application-wide settings.
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

// HTTPConfig holds the HTTP server settings.
type HTTPConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig holds the PostgreSQL settings.
type DBConfig struct {
	DSN            string `mapstructure:"dsn"`
	MigrationsPath string `mapstructure:"migrations_path"`
	RunMigrations  bool   `mapstructure:"run_migrations"`
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret    string        `mapstructure:"secret"`
	AccessTTL time.Duration `mapstructure:"access_ttl"`
}

// SalesConfig holds sales policy settings.
type SalesConfig struct {
	// EditWindow bounds post-sale quantity corrections.
	EditWindow time.Duration `mapstructure:"edit_window"`
}

// ForecastConfig holds reorder forecast thresholds, in days.
type ForecastConfig struct {
	WindowDays      int `mapstructure:"window_days"`
	CriticalDays    int `mapstructure:"critical_days"`
	LowDays         int `mapstructure:"low_days"`
	TargetDays      int `mapstructure:"target_days"`
	OverstockedDays int `mapstructure:"overstocked_days"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the optional file path and the environment.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("VYAPARI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.version", "dev")

	v.SetDefault("http.port", "8080")
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 60*time.Second)
	v.SetDefault("http.shutdown_timeout", 30*time.Second)

	v.SetDefault("db.migrations_path", "migrations")
	v.SetDefault("db.run_migrations", true)

	v.SetDefault("jwt.access_ttl", 15*time.Minute)

	v.SetDefault("sales.edit_window", 5*time.Minute)

	v.SetDefault("forecast.window_days", 30)
	v.SetDefault("forecast.critical_days", 3)
	v.SetDefault("forecast.low_days", 7)
	v.SetDefault("forecast.target_days", 14)
	v.SetDefault("forecast.overstocked_days", 60)

	v.SetDefault("log.level", "info")
}

func (c *Config) validate() error {
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn is required (VYAPARI_DB_DSN)")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required (VYAPARI_JWT_SECRET)")
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
