package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/arnavshah/student-rota/pkg/scheduler"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values
type Config struct {
	AppPort     string `mapstructure:"APP_PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DataPath    string `mapstructure:"DATA_PATH"`

	JWTSecret       string `mapstructure:"JWT_SECRET"`
	APIMasterSecret string `mapstructure:"API_MASTER_SECRET"`
	AdminUsername   string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword   string `mapstructure:"ADMIN_PASSWORD"`

	// Rota defaults, overridable per request or CLI flag
	MinPct         float64 `mapstructure:"MIN_PCT"`
	MaxPct         float64 `mapstructure:"MAX_PCT"`
	Slots          int     `mapstructure:"SLOTS"`
	PresenceMarker string  `mapstructure:"PRESENCE_MARKER"`
}

// EnvPaths are searched for a .env file, first match wins
var EnvPaths = []string{".env", "../.env", "../../.env"}

// LoadEnv loads the first .env file found in EnvPaths
func LoadEnv() {
	for _, p := range EnvPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load reads .env, an optional config.yaml and the environment
func Load() (*Config, error) {
	LoadEnv()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	defaults := scheduler.DefaultOptions()
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATA_PATH", "rota.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("API_MASTER_SECRET", "")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("MIN_PCT", defaults.MinPct)
	v.SetDefault("MAX_PCT", defaults.MaxPct)
	v.SetDefault("SLOTS", defaults.Slots)
	v.SetDefault("PRESENCE_MARKER", defaults.Marker)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RotaOptions returns the configured rota defaults
func (c *Config) RotaOptions() scheduler.Options {
	return scheduler.Options{
		MinPct: c.MinPct,
		MaxPct: c.MaxPct,
		Slots:  c.Slots,
		Marker: c.PresenceMarker,
	}
}

// Validate checks the rota defaults
func (c *Config) Validate() error {
	if err := c.RotaOptions().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
