// Package config loads the settings a long-running gateway client needs to boot: the bot
// token, intents, optional sharding overrides, and the event bus it publishes dispatched
// events to. It follows the same environment-variable-plus-.env convention as the rest of the
// ecosystem: a TOML file for structured, versioned defaults, environment variables to override
// individual fields at deploy time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the full application bootstrap configuration.
type Config struct {
	Gateway GatewayConfig
	Logging LoggingConfig
	Bus     BusConfig
}

// GatewayConfig configures the Discord connection itself.
type GatewayConfig struct {
	Token          string
	Intents        uint64
	ShardID        int
	ShardCount     int
	LargeThreshold int
}

// LoggingConfig configures the zerolog output used across every package.
type LoggingConfig struct {
	Level  string
	Format string
}

// BusConfig configures the optional AMQP fan-out publisher. Enabled defaults to false: a
// caller that only wants ReceiveNextEvent in-process never needs a broker.
type BusConfig struct {
	Enabled  bool
	URL      string
	Exchange string
}

// defaults returns a Config populated with the values used when neither a TOML file nor an
// environment variable supplies one.
func defaults() Config {
	return Config{
		Gateway: GatewayConfig{
			ShardID:        0,
			ShardCount:     1,
			LargeThreshold: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Bus: BusConfig{
			Enabled:  false,
			Exchange: "discord.dispatch",
		},
	}
}

// Load builds a Config by layering, lowest precedence first: built-in defaults, an optional
// TOML file at path (skipped entirely if path is empty or the file does not exist), a .env
// file in the working directory (optional, errors ignored exactly like godotenv's own
// documented usage), and finally environment variables.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("config: decoding %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Gateway.Token = v
	}
	if v := os.Getenv("DISCORD_INTENTS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Gateway.Intents = n
		}
	}
	if v := os.Getenv("DISCORD_SHARD_ID"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.ShardID = n
		}
	}
	if v := os.Getenv("DISCORD_SHARD_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.ShardCount = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("EVENTBUS_URL"); v != "" {
		cfg.Bus.URL = v
		cfg.Bus.Enabled = true
	}
	if v := os.Getenv("EVENTBUS_EXCHANGE"); v != "" {
		cfg.Bus.Exchange = v
	}
	if v := os.Getenv("EVENTBUS_ENABLED"); v != "" {
		cfg.Bus.Enabled = v == "true" || v == "1"
	}
}

// Validate checks the fields Load cannot safely default.
func (c *Config) Validate() error {
	if c.Gateway.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.Gateway.ShardCount <= 0 {
		return fmt.Errorf("gateway shard count must be positive")
	}
	if c.Gateway.ShardID < 0 || c.Gateway.ShardID >= c.Gateway.ShardCount {
		return fmt.Errorf("gateway shard id %d out of range [0, %d)", c.Gateway.ShardID, c.Gateway.ShardCount)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	if c.Bus.Enabled && c.Bus.URL == "" {
		return fmt.Errorf("EVENTBUS_URL is required when the event bus is enabled")
	}

	return nil
}
