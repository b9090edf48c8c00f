package sse

import (
	"time"

	"github.com/kbukum/chatrelay/validation"
)

// Defaults.
const (
	DefaultPath       = "/sse"
	DefaultBufferSize = 256
)

// Config configures the stream endpoint and the hub behind it.
type Config struct {
	// Path is the route the stream handler is mounted on.
	Path string `yaml:"path" mapstructure:"path" validate:"startswith=/"`
	// BufferSize is the per-connection outbound queue length.
	BufferSize int `yaml:"buffer_size" mapstructure:"buffer_size" validate:"min=1,max=65536"`
	// KeepAlive is the interval of ": keepalive" comments on idle streams.
	// Zero or negative sends none, so the stream carries only data events.
	KeepAlive time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`
	// MaxDuration closes streams after this long. Zero means unlimited.
	MaxDuration time.Duration `yaml:"max_duration" mapstructure:"max_duration" validate:"gte=0"`
	// MaxSubscribers caps concurrent streams. Zero means unlimited.
	MaxSubscribers int `yaml:"max_subscribers" mapstructure:"max_subscribers" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.BufferSize == 0 {
		c.BufferSize = DefaultBufferSize
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c)
}

// StreamOptions returns the per-connection settings derived from c.
func (c *Config) StreamOptions() StreamOptions {
	opts := StreamOptions{
		BufferSize:  c.BufferSize,
		KeepAlive:   c.KeepAlive,
		MaxDuration: c.MaxDuration,
	}
	if opts.KeepAlive < 0 {
		opts.KeepAlive = 0
	}
	return opts
}
