// Package observability wires OpenTelemetry tracing and metrics into the
// relay.
//
// Providers are installed globally when telemetry is enabled and exported
// over OTLP/HTTP; when disabled the global no-op providers stay in place and
// every instrument is free to call.
//
//	metrics, err := observability.NewRelayMetrics(observability.Meter("chatrelay"))
//	hub := sse.NewHub(sse.WithObserver(metrics))
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRelayPublish)
//	defer span.End()
package observability
