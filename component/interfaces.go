package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health holds health information for a component.
type Health struct {
	Name    string         `json:"name"`
	Status  HealthStatus   `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Component is a part of the service with a start/stop lifecycle.
type Component interface {
	// Name returns the unique registry name.
	Name() string

	// Start brings the component up. It must not block for the
	// lifetime of the component.
	Start(ctx context.Context) error

	// Stop shuts the component down and releases resources.
	Stop(ctx context.Context) error

	// Health reports the current state.
	Health(ctx context.Context) Health
}

// Description is a one-line self-report logged at startup.
type Description struct {
	// Name is the display name; the component's Name() when empty.
	Name string
	// Type categorizes the component: "server", "hub", "telemetry".
	Type string
	// Details is a short human-readable summary, e.g. "0.0.0.0:3000 h2c".
	Details string
	// Port is the primary port, 0 if not applicable.
	Port int
}

// Describable is optionally implemented by components to describe
// themselves in the startup log.
type Describable interface {
	Describe() Description
}
