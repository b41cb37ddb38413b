// Package config loads runtime settings from the environment, reading an
// optional .env file first.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service's runtime configuration.
type Config struct {
	HTTPAddr         string
	DBPath           string
	RedisAddr        string
	KafkaBroker      string
	RejectionsDir    string
	IntakeLockTTL    time.Duration
	ConsumersEnabled bool
}

// Load reads envFile (if it exists) into the process environment, then builds
// the Config from environment variables with defaults and validates it.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file: %w", err)
		}
	}

	ttl, err := time.ParseDuration(getenv("DR_INTAKE_LOCK_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("parse DR_INTAKE_LOCK_TTL: %w", err)
	}
	consumers, err := strconv.ParseBool(getenv("DR_CONSUMERS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("parse DR_CONSUMERS_ENABLED: %w", err)
	}

	cfg := &Config{
		HTTPAddr:         getenv("DR_HTTP_ADDR", ":8080"),
		DBPath:           getenv("DR_DB_PATH", "./data/decision_reviews.db"),
		RedisAddr:        getenv("REDIS_ADDR", "redis:6379"),
		KafkaBroker:      getenv("KAFKA_BROKER", "kafka:9092"),
		RejectionsDir:    getenv("DR_REJECTIONS_DIR", "./data/rejections"),
		IntakeLockTTL:    ttl,
		ConsumersEnabled: consumers,
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var problems []string
	if c.IntakeLockTTL <= 0 {
		problems = append(problems, "DR_INTAKE_LOCK_TTL must be positive")
	}
	if !strings.Contains(c.HTTPAddr, ":") {
		problems = append(problems, "DR_HTTP_ADDR must be host:port")
	}
	if !strings.Contains(c.RedisAddr, ":") {
		problems = append(problems, "REDIS_ADDR must be host:port")
	}
	if !strings.Contains(c.KafkaBroker, ":") {
		problems = append(problems, "KAFKA_BROKER must be host:port")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
