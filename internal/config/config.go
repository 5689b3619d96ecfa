package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/nerveconnect/clinic-api/pkg/gemini"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Log      LogConfig      `mapstructure:"log"`

	// Gemini is environment-only (envconfig): the credential must not
	// live in a config file.
	Gemini gemini.Config `mapstructure:"-"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	// Generative limits gate the endpoints that spend an upstream
	// completion per request.
	GenerativeRPS   float64 `mapstructure:"generative_rps"`
	GenerativeBurst int     `mapstructure:"generative_burst"`
	CORSOrigin     string        `mapstructure:"cors_origin"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown_grace"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	// URL empty means no broker: event publishing becomes a no-op.
	URL string `mapstructure:"url"`
}

type AuditConfig struct {
	RetentionDays   int           `mapstructure:"retention_days"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func setDefaults() {
	viper.SetDefault("server.port", 4000)
	viper.SetDefault("server.timeout_seconds", 30)
	viper.SetDefault("server.rate_limit_rps", 10)
	viper.SetDefault("server.rate_limit_burst", 20)
	viper.SetDefault("server.generative_rps", 2)
	viper.SetDefault("server.generative_burst", 5)
	viper.SetDefault("server.cors_origin", "http://localhost:5173")
	viper.SetDefault("server.shutdown_grace", 5*time.Second)
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.name", "nerveconnect")
	viper.SetDefault("audit.retention_days", 90)
	viper.SetDefault("audit.cleanup_interval", 24*time.Hour)
	viper.SetDefault("log.level", "info")
}

// LoadConfig reads config.yaml (working dir or ./config), applies
// environment overrides, then loads the environment-only Gemini section.
// A missing config file is fine; the defaults stand.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config.Gemini); err != nil {
		return nil, fmt.Errorf("failed to load gemini config: %w", err)
	}

	return &config, nil
}
