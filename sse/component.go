package sse

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/chatrelay/component"
)

// Component manages a Hub's lifecycle. Stopping it closes the hub, which
// ends every open stream.
type Component struct {
	hub  *Hub
	path string

	mu      sync.Mutex
	started bool
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent wraps hub, served on path.
func NewComponent(hub *Hub, path string) *Component {
	return &Component{hub: hub, path: path}
}

// Hub returns the underlying hub.
func (c *Component) Hub() *Hub { return c.hub }

// Name implements component.Component.
func (c *Component) Name() string { return "sse-hub" }

// Start implements component.Component. The hub needs no background work.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hub.Closed() {
		return fmt.Errorf("sse hub already closed")
	}
	c.started = true
	return nil
}

// Stop closes the hub.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hub.Close()
	c.started = false
	return nil
}

// Health implements component.Component.
func (c *Component) Health(_ context.Context) component.Health {
	stats := c.hub.Stats()
	h := component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d subscribers connected", stats.Subscribers),
		Details: map[string]any{
			"subscribers": stats.Subscribers,
			"published":   stats.Published,
			"delivered":   stats.Delivered,
			"failed":      stats.Failed,
		},
	}
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()

	switch {
	case c.hub.Closed():
		h.Status = component.StatusUnhealthy
		h.Message = "hub closed"
	case !started:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	limit := "unlimited"
	if c.hub.maxSubscribers > 0 {
		limit = fmt.Sprintf("%d", c.hub.maxSubscribers)
	}
	return component.Description{
		Name:    "SSE Hub",
		Type:    "sse",
		Details: fmt.Sprintf("path=%s max_subscribers=%s", c.path, limit),
	}
}
