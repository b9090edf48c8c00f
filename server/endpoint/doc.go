// Package endpoint provides the operational Gin handlers: health, readiness,
// liveness, info, version and runtime metrics.
package endpoint
