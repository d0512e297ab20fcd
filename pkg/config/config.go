// Package config holds sparktel configuration with environment-variable
// defaults and optional YAML file overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// TransportKind selects the telemetry transport implementation.
type TransportKind string

const (
	TransportStdout TransportKind = "stdout"
	TransportNATS   TransportKind = "nats"
)

// NATSConfig holds NATS connection and publishing settings.
type NATSConfig struct {
	URL               string        `yaml:"url"`
	Name              string        `yaml:"name"`
	Subject           string        `yaml:"subject"`
	MaxReconnects     int           `yaml:"max_reconnects"`
	ReconnectWait     time.Duration `yaml:"reconnect_wait"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// Validate checks connection settings.
func (c NATSConfig) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("NATS URL is required")
	}
	if c.Subject == "" {
		return fmt.Errorf("NATS subject is required")
	}
	return nil
}

// Config is the top-level sparktel configuration.
type Config struct {
	// Transport selects where flushed batches go.
	Transport TransportKind `yaml:"transport"`

	// ConnectorVersion is stamped into client-info and pushdown-failure
	// events.
	ConnectorVersion string `yaml:"connector_version"`

	NATS NATSConfig `yaml:"nats"`
}

// DefaultConfig returns defaults, overridable via SPARKTEL_* environment
// variables.
func DefaultConfig() *Config {
	return &Config{
		Transport:        TransportKind(getEnv("SPARKTEL_TRANSPORT", string(TransportStdout))),
		ConnectorVersion: getEnv("SPARKTEL_CONNECTOR_VERSION", "dev"),
		NATS: NATSConfig{
			URL:               getEnv("SPARKTEL_NATS_URL", "nats://localhost:4222"),
			Name:              getEnv("SPARKTEL_NATS_CLIENT_NAME", "sparktel"),
			Subject:           getEnv("SPARKTEL_NATS_SUBJECT", "telemetry.spark"),
			MaxReconnects:     getEnvInt("SPARKTEL_NATS_MAX_RECONNECTS", 10),
			ReconnectWait:     getEnvDuration("SPARKTEL_NATS_RECONNECT_WAIT", "1s"),
			ConnectionTimeout: getEnvDuration("SPARKTEL_NATS_CONNECTION_TIMEOUT", "5s"),
		},
	}
}

// LoadFile reads a YAML config file over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdout:
		return nil
	case TransportNATS:
		return c.NATS.Validate()
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}
	if duration, err := time.ParseDuration(defaultValue); err == nil {
		return duration
	}
	return time.Second
}
