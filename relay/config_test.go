package relay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kbukum/chatrelay/config"
	"github.com/kbukum/chatrelay/sse"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Name != DefaultName {
		t.Errorf("expected name %s, got %s", DefaultName, cfg.Name)
	}
	if cfg.IngressPath != "/chat" {
		t.Errorf("expected /chat, got %s", cfg.IngressPath)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("expected port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Stream.Path != sse.DefaultPath || cfg.Stream.BufferSize != sse.DefaultBufferSize {
		t.Errorf("unexpected stream defaults: %+v", cfg.Stream)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad environment", func(c *Config) { c.Environment = "qa" }},
		{"ingress without slash", func(c *Config) { c.IngressPath = "chat" }},
		{"ingress equals stream", func(c *Config) { c.IngressPath = "/sse" }},
		{"bad port", func(c *Config) { c.Server.Port = 99999 }},
		{"bad stream path", func(c *Config) { c.Stream.Path = "sse" }},
		{"bad sample rate", func(c *Config) { c.Observability.SampleRate = 2 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfig_LoadFromFileAndPortAlias(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yml")
	yml := `name: relay-test
environment: production
stream:
  keep_alive: 10s
  max_subscribers: 50
server:
  port: 4000
`
	if err := os.WriteFile(file, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "5050")

	var cfg Config
	err := config.LoadConfig("relay", &cfg,
		config.WithConfigFile(file),
		config.WithEnvFile(filepath.Join(dir, "none.env")),
		config.WithEnvAlias("PORT", "server.port"),
	)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	cfg.ApplyDefaults()

	if cfg.Name != "relay-test" || cfg.Environment != "production" {
		t.Errorf("unexpected service fields: %+v", cfg.ServiceConfig)
	}
	if cfg.Server.Port != 5050 {
		t.Errorf("expected PORT alias to win over file, got %d", cfg.Server.Port)
	}
	if cfg.Stream.KeepAlive != 10*time.Second || cfg.Stream.MaxSubscribers != 50 {
		t.Errorf("unexpected stream config: %+v", cfg.Stream)
	}
}
