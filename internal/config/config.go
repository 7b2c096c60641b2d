// Package config centralises configuration parsing for the exercise tracker.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Loads a .env file from the working directory, if present, before variables are read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Prefix scopes the environment variables read by Load: TRACKER_HTTP_ADDRESS -> http_address.
const Prefix = "TRACKER_"

// Config captures runtime configuration values for the exercise tracker.
type Config struct {
	HTTPAddress        string        `koanf:"http_address" validate:"required"`
	PostgresURL        string        `koanf:"postgres_url"`
	MigrateOnStart     bool          `koanf:"migrate_on_start"`
	KafkaBrokers       []string      `koanf:"kafka_brokers"`
	ConsumerGroupID    string        `koanf:"consumer_group_id" validate:"required"`
	ConsumerTopics     []string      `koanf:"consumer_topics" validate:"required,min=1"`
	MetricsAddress     string        `koanf:"metrics_address" validate:"required"`
	LogLevel           string        `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogPretty          bool          `koanf:"log_pretty"`
	StaticDir          string        `koanf:"static_dir"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins" validate:"required,min=1"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// Default returns the configuration used for any key that is not set.
func Default() Config {
	return Config{
		HTTPAddress:        ":3000",
		MigrateOnStart:     true,
		ConsumerGroupID:    "exercise-tracker-activity",
		ConsumerTopics:     []string{"user_events", "exercise_events"},
		MetricsAddress:     ":9102",
		LogLevel:           "info",
		CORSAllowedOrigins: []string{"*"},
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       10 * time.Second,
		IdleTimeout:        60 * time.Second,
		ShutdownTimeout:    15 * time.Second,
	}
}

// Load reads TRACKER_-prefixed environment variables over the defaults and validates the result.
func Load() (Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(Prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, Prefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if port, ok := os.LookupEnv("PORT"); ok && port != "" && !k.Exists("http_address") {
		cfg.HTTPAddress = ":" + port
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.KafkaBrokers = splitAndTrim(cfg.KafkaBrokers)
	cfg.CORSAllowedOrigins = splitAndTrim(cfg.CORSAllowedOrigins)
	cfg.ConsumerTopics = splitAndTrim(cfg.ConsumerTopics)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func splitAndTrim(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
