package sse

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/chatrelay/component"
)

func TestComponentLifecycle(t *testing.T) {
	hub := NewHub(WithMaxSubscribers(10))
	c := NewComponent(hub, "/sse")
	ctx := context.Background()

	if c.Name() != "sse-hub" {
		t.Errorf("expected name 'sse-hub', got %q", c.Name())
	}
	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	hub.Subscribe(func(string) error { return nil })

	h := c.Health(ctx)
	if h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}
	if h.Details["subscribers"] != 1 {
		t.Errorf("expected 1 subscriber in details, got %v", h.Details["subscribers"])
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if !hub.Closed() {
		t.Error("expected Stop to close the hub")
	}
	if h := c.Health(ctx); h.Message != "hub closed" {
		t.Errorf("expected 'hub closed', got %q", h.Message)
	}
	if err := c.Start(ctx); err == nil {
		t.Error("expected Start on a closed hub to fail")
	}
}

func TestComponentDescribe(t *testing.T) {
	d := NewComponent(NewHub(WithMaxSubscribers(5)), "/sse").Describe()
	if !strings.Contains(d.Details, "path=/sse") || !strings.Contains(d.Details, "max_subscribers=5") {
		t.Errorf("unexpected details %q", d.Details)
	}
	if d := NewComponent(NewHub(), "/sse").Describe(); !strings.Contains(d.Details, "unlimited") {
		t.Errorf("expected unlimited, got %q", d.Details)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Path != DefaultPath || cfg.BufferSize != DefaultBufferSize {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if opts := cfg.StreamOptions(); opts.KeepAlive != 0 || opts.MaxDuration != 0 {
		t.Errorf("expected keep-alive and max duration off by default, got %+v", opts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.KeepAlive = -time.Second
	if opts := cfg.StreamOptions(); opts.KeepAlive != 0 {
		t.Errorf("expected negative keep-alive to disable, got %v", opts.KeepAlive)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Path: "sse", BufferSize: 1, MaxSubscribers: -1}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"path", "max_subscribers"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s in error, got %v", field, err)
		}
	}
}
