package relay

import (
	"fmt"

	"github.com/kbukum/chatrelay/config"
	"github.com/kbukum/chatrelay/observability"
	"github.com/kbukum/chatrelay/server"
	"github.com/kbukum/chatrelay/sse"
)

// DefaultName is the service name when none is configured.
const DefaultName = "chatrelay"

// DefaultIngressPath is where messages are posted.
const DefaultIngressPath = "/chat"

// Config is the relay service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// IngressPath is the route messages are published on.
	IngressPath string `yaml:"ingress_path" mapstructure:"ingress_path"`

	// DisableDemo drops the chat page, static assets and demo responders.
	DisableDemo bool `yaml:"disable_demo" mapstructure:"disable_demo"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Stream        sse.Config           `yaml:"stream" mapstructure:"stream"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset fields in every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultName
	}
	c.ServiceConfig.ApplyDefaults()
	if c.IngressPath == "" {
		c.IngressPath = DefaultIngressPath
	}
	c.Server.ApplyDefaults()
	c.Stream.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if c.IngressPath == "" || c.IngressPath[0] != '/' {
		return fmt.Errorf("config.ingress_path: must start with /, got %q", c.IngressPath)
	}
	if c.IngressPath == c.Stream.Path {
		return fmt.Errorf("config.ingress_path: collides with stream path %q", c.Stream.Path)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Stream.Validate(); err != nil {
		return fmt.Errorf("config.stream: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}
