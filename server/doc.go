// Package server provides the relay's HTTP server: a Gin engine mounted on an
// http.ServeMux and served over HTTP/1.1 and h2c.
//
// The server follows the component pattern with lifecycle management,
// health endpoints and a handler-level middleware stack.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging and a JSON 500
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: cross-origin resource sharing and preflight
//   - BodySizeLimit: request body size limits
//   - RequestLogger: request logging with duration tracking
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /ready: readiness probe
//   - /alive: liveness probe
//   - /info: service and build information
//   - /version: build version information
//   - /metrics: runtime memory and goroutine stats
package server
