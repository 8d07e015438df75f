package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SKINFRIDGE_SERVER_PORT
const EnvPrefix = "SKINFRIDGE"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Session   SessionConfig   `mapstructure:"session"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port" validate:"required,numeric"`
	Environment    string   `mapstructure:"environment" validate:"oneof=development staging production test"`
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,required"`
}

// CatalogConfig holds backend catalog API configuration
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url" validate:"required,url"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int           `mapstructure:"burst" validate:"min=1"`
	SearchLimit       int           `mapstructure:"search_limit" validate:"min=1,max=50"`
	FuzzyMatching     bool          `mapstructure:"fuzzy_matching"`
	Debug             bool          `mapstructure:"debug"`
	SessionCookieName string        `mapstructure:"session_cookie_name" validate:"required_with=SessionCookie"`
	SessionCookie     string        `mapstructure:"session_cookie" validate:"required_with=SessionCookieName"`
}

// SessionConfig holds fridge page configuration
type SessionConfig struct {
	DisplayName    string        `mapstructure:"display_name" validate:"required"`
	BootstrapDelay time.Duration `mapstructure:"bootstrap_delay" validate:"gte=0"`
	// PreferencesPath is the YAML file preferences persist to; empty keeps them in memory
	PreferencesPath string `mapstructure:"preferences_path"`
	// DisableReconcile skips re-fetching products after an add or delete
	DisableReconcile bool `mapstructure:"disable_reconcile"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip" validate:"min=1"` // requests per minute
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/skinfridge/")

	return load(v)
}

// LoadFile loads configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// the file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("catalog.base_url", "http://localhost:8000")
	v.SetDefault("catalog.timeout", "30s")
	v.SetDefault("catalog.requests_per_second", 10)
	v.SetDefault("catalog.burst", 10)
	v.SetDefault("catalog.search_limit", 5)
	v.SetDefault("catalog.fuzzy_matching", false)
	v.SetDefault("catalog.debug", false)
	v.SetDefault("catalog.session_cookie_name", "")
	v.SetDefault("catalog.session_cookie", "")

	v.SetDefault("session.display_name", "there")
	v.SetDefault("session.bootstrap_delay", "100ms")
	v.SetDefault("session.preferences_path", "")
	v.SetDefault("session.disable_reconcile", false)

	v.SetDefault("ratelimit.per_ip", 100)

	v.SetDefault("log.level", "info")
}

// Validate checks the configuration against its struct tags
func Validate(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}
