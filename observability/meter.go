package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names.
const (
	MetricMessagesPublished = "relay.messages.published"
	MetricDeliveries        = "relay.deliveries"
	MetricActiveSubscribers = "relay.subscribers.active"
	MetricPublishDuration   = "relay.publish.duration"
)

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

var (
	resultOK     = metric.WithAttributes(attribute.String("result", "ok"))
	resultFailed = metric.WithAttributes(attribute.String("result", "failed"))
)

// RelayMetrics holds the instruments for broadcast activity. A nil
// *RelayMetrics records nothing.
type RelayMetrics struct {
	published       metric.Int64Counter
	deliveries      metric.Int64Counter
	subscribers     metric.Int64UpDownCounter
	publishDuration metric.Float64Histogram
}

// NewRelayMetrics creates the relay instruments on meter.
func NewRelayMetrics(meter metric.Meter) (*RelayMetrics, error) {
	published, err := meter.Int64Counter(MetricMessagesPublished,
		metric.WithDescription("Messages accepted for broadcast"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricMessagesPublished, err)
	}

	deliveries, err := meter.Int64Counter(MetricDeliveries,
		metric.WithDescription("Per-subscriber deliveries by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricDeliveries, err)
	}

	subscribers, err := meter.Int64UpDownCounter(MetricActiveSubscribers,
		metric.WithDescription("Currently registered stream subscribers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricActiveSubscribers, err)
	}

	publishDuration, err := meter.Float64Histogram(MetricPublishDuration,
		metric.WithDescription("Time to fan a message out to all subscribers"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricPublishDuration, err)
	}

	return &RelayMetrics{
		published:       published,
		deliveries:      deliveries,
		subscribers:     subscribers,
		publishDuration: publishDuration,
	}, nil
}

// ObservePublish records one broadcast.
func (m *RelayMetrics) ObservePublish(delivered, failed int, elapsed time.Duration) {
	if m == nil {
		return
	}
	ctx := context.Background()
	m.published.Add(ctx, 1)
	if delivered > 0 {
		m.deliveries.Add(ctx, int64(delivered), resultOK)
	}
	if failed > 0 {
		m.deliveries.Add(ctx, int64(failed), resultFailed)
	}
	m.publishDuration.Record(ctx, elapsed.Seconds())
}

// ObserveSubscribers adjusts the active subscriber gauge by delta.
func (m *RelayMetrics) ObserveSubscribers(delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.subscribers.Add(context.Background(), int64(delta))
}
