package sse

import (
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/chatrelay/errors"
	"github.com/kbukum/chatrelay/logger"
)

// LoggerName is the registry name the hub and its streams log under.
const LoggerName = "sse"

// Delivery failures a Subscriber may report. Publish contains them.
var (
	ErrSlowSubscriber   = stderrors.New("sse: subscriber buffer full, message dropped")
	ErrConnectionClosed = stderrors.New("sse: connection closed")
)

// Hub errors. They match by code with errors.Is.
var (
	ErrHubFull   = errors.CapacityExceeded("event stream", 0)
	ErrHubClosed = errors.ServiceUnavailable("event stream")
)

// Subscriber receives each published message. A returned error or a panic
// is logged and counted by the hub and never reaches the publisher.
type Subscriber func(message string) error

// Handle identifies one subscription. The zero Handle is valid and refers
// to no subscription.
type Handle struct {
	id uint64
}

// Active reports whether h was issued by Subscribe.
func (h Handle) Active() bool { return h.id != 0 }

type entry struct {
	id uint64
	fn Subscriber
}

// Stats is a point-in-time view of hub activity.
type Stats struct {
	Subscribers int       `json:"subscribers"`
	Published   uint64    `json:"published"`
	Delivered   uint64    `json:"delivered"`
	Failed      uint64    `json:"failed"`
	StartedAt   time.Time `json:"started_at"`
}

// Hub is the live subscriber set. It is safe for concurrent use.
//
// The entries slice is replaced, never modified in place, on removal, so a
// Publish can iterate a snapshot without holding the lock. Subscribers
// added during a Publish are not part of its snapshot.
type Hub struct {
	mu      sync.Mutex
	entries []entry
	nextID  uint64
	closed  bool
	done    chan struct{}

	maxSubscribers int
	observer       Observer
	log            *logger.Logger

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	startedAt time.Time
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithMaxSubscribers caps the subscriber count enforced by TrySubscribe.
// Zero or negative means unlimited.
func WithMaxSubscribers(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.maxSubscribers = n
		}
	}
}

// WithObserver reports publishes and subscriber changes to o.
func WithObserver(o Observer) HubOption {
	return func(h *Hub) { h.observer = o }
}

// NewHub creates an empty hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		done:      make(chan struct{}),
		startedAt: time.Now(),
		log:       logger.Get(LoggerName),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscribe registers fn and returns its handle. It ignores the subscriber
// cap. After Close it returns the zero Handle and registers nothing.
func (h *Hub) Subscribe(fn Subscriber) Handle {
	h.mu.Lock()
	handle, ok := h.addLocked(fn)
	count := len(h.entries)
	h.mu.Unlock()

	if ok {
		h.subscribersChanged(1, count)
	}
	return handle
}

// TrySubscribe registers fn unless the hub is at capacity (ErrHubFull) or
// closed (ErrHubClosed).
func (h *Hub) TrySubscribe(fn Subscriber) (Handle, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return Handle{}, ErrHubClosed
	}
	if h.maxSubscribers > 0 && len(h.entries) >= h.maxSubscribers {
		h.mu.Unlock()
		return Handle{}, errors.CapacityExceeded("event stream", h.maxSubscribers)
	}
	handle, _ := h.addLocked(fn)
	count := len(h.entries)
	h.mu.Unlock()

	h.subscribersChanged(1, count)
	return handle, nil
}

func (h *Hub) addLocked(fn Subscriber) (Handle, bool) {
	if h.closed || fn == nil {
		return Handle{}, false
	}
	h.nextID++
	h.entries = append(h.entries, entry{id: h.nextID, fn: fn})
	return Handle{id: h.nextID}, true
}

// Unsubscribe removes the subscription. Unknown, zero and already removed
// handles are a no-op. It reports whether this call removed the entry.
// Safe to call from inside a Subscriber.
func (h *Hub) Unsubscribe(handle Handle) bool {
	if !handle.Active() {
		return false
	}

	h.mu.Lock()
	idx := -1
	for i, e := range h.entries {
		if e.id == handle.id {
			idx = i
			break
		}
	}
	if idx < 0 {
		h.mu.Unlock()
		return false
	}
	next := make([]entry, 0, len(h.entries)-1)
	next = append(next, h.entries[:idx]...)
	next = append(next, h.entries[idx+1:]...)
	h.entries = next
	count := len(next)
	h.mu.Unlock()

	h.subscribersChanged(-1, count)
	return true
}

// Publish invokes every subscriber registered at the start of the call, in
// registration order, and returns the number of successful deliveries.
// No lock is held while subscribers run.
func (h *Hub) Publish(message string) int {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return 0
	}
	snapshot := h.entries
	h.mu.Unlock()

	start := time.Now()
	h.published.Add(1)

	delivered, failed := 0, 0
	for _, e := range snapshot {
		if err := h.deliver(e, message); err != nil {
			failed++
			h.logDeliveryFailure(e.id, err)
			continue
		}
		delivered++
	}

	h.delivered.Add(uint64(delivered))
	h.failed.Add(uint64(failed))
	if h.observer != nil {
		h.observer.ObservePublish(delivered, failed, time.Since(start))
	}

	if len(snapshot) > 0 {
		h.log.Debug("[SSE_HUB] Broadcast sent", map[string]interface{}{
			"subscribers": len(snapshot),
			"delivered":   delivered,
			"failed":      failed,
			"data_size":   len(message),
		})
	}
	return delivered
}

// deliver calls one subscriber and turns a panic into an error.
func (h *Hub) deliver(e entry, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sse: subscriber panicked: %v", r)
		}
	}()
	return e.fn(message)
}

func (h *Hub) logDeliveryFailure(id uint64, err error) {
	fields := map[string]interface{}{
		"subscription": id,
		"error":        err.Error(),
	}
	if stderrors.Is(err, ErrSlowSubscriber) || stderrors.Is(err, ErrConnectionClosed) {
		h.log.Debug("[SSE_HUB] Delivery skipped", fields)
		return
	}
	h.log.Warn("[SSE_HUB] Subscriber failed", fields)
}

func (h *Hub) subscribersChanged(delta, count int) {
	if h.observer != nil {
		h.observer.ObserveSubscribers(delta)
	}
	if delta > 0 {
		h.log.Debug("[SSE_HUB] Subscriber registered", map[string]interface{}{"total_subscribers": count})
	} else {
		h.log.Debug("[SSE_HUB] Subscriber unregistered", map[string]interface{}{"total_subscribers": count})
	}
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Stats returns current counters.
func (h *Hub) Stats() Stats {
	return Stats{
		Subscribers: h.Count(),
		Published:   h.published.Load(),
		Delivered:   h.delivered.Load(),
		Failed:      h.failed.Load(),
		StartedAt:   h.startedAt,
	}
}

// Done is closed when the hub is closed. Open streams end on it.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Closed reports whether Close has been called.
func (h *Hub) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Close drops every subscriber and makes later publishes no-ops.
// Safe to call multiple times.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	dropped := len(h.entries)
	h.entries = nil
	close(h.done)
	h.mu.Unlock()

	if h.observer != nil && dropped > 0 {
		h.observer.ObserveSubscribers(-dropped)
	}
	h.log.Debug("[SSE_HUB] Hub closed", map[string]interface{}{"dropped_subscribers": dropped})
}

var _ Publisher = (*Hub)(nil)
