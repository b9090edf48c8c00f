package sse

import "time"

// Publisher is what message producers depend on instead of the concrete Hub.
type Publisher interface {
	// Publish delivers message to every current subscriber and returns the
	// number of successful deliveries. Subscriber failures are contained.
	Publish(message string) int
}

// Observer receives hub activity, e.g. for metrics.
type Observer interface {
	ObservePublish(delivered, failed int, elapsed time.Duration)
	ObserveSubscribers(delta int)
}
