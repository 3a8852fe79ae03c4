// Package config loads service settings with viper, from environment
// variables plus an optional .env file.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every setting the server needs. Values come from environment
// variables; a .env file in the working directory can supply them in dev.
type Config struct {
	Port               string `mapstructure:"PORT"`
	DBPath             string `mapstructure:"DB_PATH"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	TokenDurationHours int    `mapstructure:"TOKEN_DURATION_HOURS"`
	FrontendURL        string `mapstructure:"FRONTEND_URL"`
	AdminName          string `mapstructure:"ADMIN_NAME"`
	AdminEmail         string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword      string `mapstructure:"ADMIN_PASSWORD"`
	LogLevel           string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from the given path. A missing .env file is fine;
// the environment alone can configure everything.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_PATH", "data/consorciapp.db")
	v.SetDefault("TOKEN_DURATION_HOURS", 24)
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("ADMIN_NAME", "Administrador")
	v.SetDefault("LOG_LEVEL", "info")

	for _, key := range []string{
		"PORT", "DB_PATH", "JWT_SECRET", "TOKEN_DURATION_HOURS",
		"FRONTEND_URL", "ADMIN_NAME", "ADMIN_EMAIL", "ADMIN_PASSWORD", "LOG_LEVEL",
	} {
		_ = v.BindEnv(key)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, errors.New("JWT_SECRET must be set")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8080"
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = "data/consorciapp.db"
	}
	if cfg.TokenDurationHours <= 0 {
		cfg.TokenDurationHours = 24
	}
	return cfg, nil
}
