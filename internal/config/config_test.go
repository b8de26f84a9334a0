package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  addr: ":8080"
bot:
  kind: uci
  cmd: stockfish
  depth: 8
  timeout: 3s
clock:
  initial: 5m
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if len(cfg.Server.AllowOrigins) != 1 {
		t.Errorf("allow origins should keep the default, got %v", cfg.Server.AllowOrigins)
	}
	if cfg.Bot.Kind != BotUCI || cfg.Bot.Cmd != "stockfish" || cfg.Bot.Depth != 8 {
		t.Errorf("bot = %+v", cfg.Bot)
	}
	if cfg.Bot.Timeout != 3*time.Second {
		t.Errorf("timeout = %v", cfg.Bot.Timeout)
	}
	if cfg.Clock.Initial != 5*time.Minute {
		t.Errorf("clock = %v", cfg.Clock.Initial)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown bot kind", func(c *Config) { c.Bot.Kind = "carrier-pigeon" }},
		{"uci without cmd", func(c *Config) { c.Bot.Kind = BotUCI }},
		{"http without url", func(c *Config) { c.Bot.Kind = BotHTTP; c.Bot.URL = "" }},
		{"negative depth", func(c *Config) { c.Bot.Depth = -1 }},
		{"negative clock", func(c *Config) { c.Clock.Initial = -time.Second }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"no storage dir", func(c *Config) { c.Storage.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for an explicit missing path")
	}
}
