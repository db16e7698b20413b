package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DISCORD_TOKEN", "DISCORD_INTENTS", "DISCORD_SHARD_ID", "DISCORD_SHARD_COUNT",
		"LOG_LEVEL", "LOG_FORMAT", "EVENTBUS_URL", "EVENTBUS_EXCHANGE", "EVENTBUS_ENABLED",
	} {
		os.Unsetenv(key)
	}
}

func TestLoadFailsWithoutToken(t *testing.T) {
	clearEnv(t)

	if _, err := Load(""); err == nil {
		t.Fatal("expected an error when DISCORD_TOKEN is unset")
	}
}

func TestLoadAppliesDefaultsAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "abc123")
	t.Setenv("DISCORD_SHARD_COUNT", "4")
	t.Setenv("DISCORD_SHARD_ID", "2")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Gateway.Token != "abc123" {
		t.Errorf("Token = %q", cfg.Gateway.Token)
	}
	if cfg.Gateway.ShardCount != 4 || cfg.Gateway.ShardID != 2 {
		t.Errorf("ShardID/ShardCount = %d/%d, want 2/4", cfg.Gateway.ShardID, cfg.Gateway.ShardCount)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want lowercased \"debug\"", cfg.Logging.Level)
	}
	if cfg.Gateway.LargeThreshold != 50 {
		t.Errorf("LargeThreshold = %d, want default 50", cfg.Gateway.LargeThreshold)
	}
	if cfg.Bus.Enabled {
		t.Error("Bus.Enabled = true, want false by default")
	}
}

func TestLoadRejectsOutOfRangeShardID(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "abc123")
	t.Setenv("DISCORD_SHARD_COUNT", "2")
	t.Setenv("DISCORD_SHARD_ID", "5")

	if _, err := Load(""); err == nil {
		t.Fatal("expected an error for an out-of-range shard id")
	}
}

func TestLoadRequiresEventBusURLWhenEnabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "abc123")
	t.Setenv("EVENTBUS_ENABLED", "true")

	if _, err := Load(""); err == nil {
		t.Fatal("expected an error when the event bus is enabled without a URL")
	}
}
