// Package component defines lifecycle-managed parts of a service and the
// registry that starts them in order and stops them in reverse.
//
// The relay registers its broadcast hub, the observability providers and the
// HTTP server as components; bootstrap drives the registry.
package component
