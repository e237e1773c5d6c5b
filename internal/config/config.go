// Package config loads planner settings from flags, environment and an
// optional field-planner.yaml.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FIELD_PLANNER_DB.
const EnvPrefix = "FIELD_PLANNER"

// Config holds all configuration values.
type Config struct {
	DBPath    string `mapstructure:"db"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Catalog   string `mapstructure:"catalog"`

	GeofenceRadiusKm float64       `mapstructure:"geofence_radius_km"`
	LocationTimeout  time.Duration `mapstructure:"location_timeout"`
	SimulateLocation bool          `mapstructure:"simulate_location"`

	QuotaLimit    int           `mapstructure:"quota_limit"`
	QuotaWindow   time.Duration `mapstructure:"quota_window"`
	ReminderCount int           `mapstructure:"reminder_count"`

	Listen string `mapstructure:"listen"`
}

// New returns a viper instance with defaults, config search paths and env binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("field-planner")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".field-planner"))
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("db", defaultDBPath())
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "console")
	v.SetDefault("catalog", "")
	v.SetDefault("geofence_radius_km", 1.0)
	v.SetDefault("location_timeout", 10*time.Second)
	v.SetDefault("simulate_location", false)
	v.SetDefault("quota_limit", 2)
	v.SetDefault("quota_window", 30*time.Minute)
	v.SetDefault("reminder_count", 3)
	v.SetDefault("listen", ":8080")
	return v
}

// Load reads the optional config file and decodes v into a Config.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if cfg.GeofenceRadiusKm <= 0 {
		return Config{}, errors.Errorf("geofence_radius_km must be positive, got %v", cfg.GeofenceRadiusKm)
	}
	if cfg.QuotaLimit <= 0 || cfg.QuotaWindow <= 0 {
		return Config{}, errors.New("quota_limit and quota_window must be positive")
	}
	return cfg, nil
}

func defaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".field-planner", "planner.db")
}
