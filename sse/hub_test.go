package sse

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/kbukum/chatrelay/errors"
)

// recorder collects messages delivered to one subscriber.
type recorder struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recorder) subscriber() Subscriber {
	return func(message string) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.msgs = append(r.msgs, message)
		return nil
	}
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.msgs...)
}

type fakeObserver struct {
	mu          sync.Mutex
	publishes   int
	delivered   int
	failed      int
	subscribers int
}

func (o *fakeObserver) ObservePublish(delivered, failed int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.publishes++
	o.delivered += delivered
	o.failed += failed
}

func (o *fakeObserver) ObserveSubscribers(delta int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.subscribers += delta
}

func TestHub_NewHub(t *testing.T) {
	hub := NewHub()
	if hub.Count() != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.Count())
	}
	if hub.Closed() {
		t.Error("expected new hub to be open")
	}
}

func TestHub_PublishFanOut(t *testing.T) {
	hub := NewHub()
	var a, b, c recorder
	hub.Subscribe(a.subscriber())
	hub.Subscribe(b.subscriber())
	hub.Subscribe(c.subscriber())

	if n := hub.Publish("m"); n != 3 {
		t.Errorf("expected 3 deliveries, got %d", n)
	}
	for name, r := range map[string]*recorder{"a": &a, "b": &b, "c": &c} {
		got := r.messages()
		if len(got) != 1 || got[0] != "m" {
			t.Errorf("subscriber %s: expected [m], got %v", name, got)
		}
	}
}

func TestHub_PublishRegistrationOrder(t *testing.T) {
	hub := NewHub()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		hub.Subscribe(func(string) error {
			order = append(order, i)
			return nil
		})
	}

	hub.Publish("x")
	for i, v := range order {
		if v != i {
			t.Fatalf("expected registration order, got %v", order)
		}
	}
}

func TestHub_PublishEmptySet(t *testing.T) {
	hub := NewHub()
	if n := hub.Publish("nobody listening"); n != 0 {
		t.Errorf("expected 0 deliveries, got %d", n)
	}
	if hub.Count() != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.Count())
	}
}

func TestHub_UnsubscribeIdempotent(t *testing.T) {
	hub := NewHub()
	var r recorder
	h := hub.Subscribe(r.subscriber())

	if !hub.Unsubscribe(h) {
		t.Error("expected first Unsubscribe to remove the entry")
	}
	if hub.Unsubscribe(h) {
		t.Error("expected second Unsubscribe to be a no-op")
	}
	if hub.Count() != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.Count())
	}

	hub.Publish("after")
	if got := r.messages(); len(got) != 0 {
		t.Errorf("expected no deliveries after unsubscribe, got %v", got)
	}
}

func TestHub_UnsubscribeUnknownHandle(t *testing.T) {
	hub := NewHub()
	var r recorder
	hub.Subscribe(r.subscriber())

	if hub.Unsubscribe(Handle{}) {
		t.Error("expected zero handle to be a no-op")
	}
	if hub.Unsubscribe(Handle{id: 999}) {
		t.Error("expected unknown handle to be a no-op")
	}
	if hub.Count() != 1 {
		t.Errorf("expected subscriber to remain, got count %d", hub.Count())
	}
}

func TestHub_HandlesAreDistinct(t *testing.T) {
	hub := NewHub()
	fn := func(string) error { return nil }
	h1 := hub.Subscribe(fn)
	h2 := hub.Subscribe(fn)

	if h1 == h2 {
		t.Fatal("expected distinct handles for the same callback")
	}
	hub.Unsubscribe(h1)
	if hub.Count() != 1 {
		t.Errorf("expected the second registration to remain, got count %d", hub.Count())
	}
}

func TestHub_ReentrantUnsubscribe(t *testing.T) {
	hub := NewHub()
	calls := map[string]int{}
	var hA, hB Handle

	hA = hub.Subscribe(func(string) error {
		calls["a"]++
		hub.Unsubscribe(hA)
		hub.Unsubscribe(hB)
		return nil
	})
	hB = hub.Subscribe(func(string) error {
		calls["b"]++
		return nil
	})
	hub.Subscribe(func(string) error {
		calls["c"]++
		return nil
	})

	if n := hub.Publish("first"); n != 3 {
		t.Errorf("expected 3 deliveries from the snapshot, got %d", n)
	}
	for _, name := range []string{"a", "b", "c"} {
		if calls[name] != 1 {
			t.Errorf("expected %s invoked exactly once, got %d", name, calls[name])
		}
	}

	hub.Publish("second")
	if calls["a"] != 1 || calls["b"] != 1 {
		t.Errorf("expected removed subscribers to stay removed, got %v", calls)
	}
	if calls["c"] != 2 {
		t.Errorf("expected c invoked twice, got %d", calls["c"])
	}
}

func TestHub_SelfUnsubscribeInsideCallback(t *testing.T) {
	hub := NewHub()
	var order []string
	var hB Handle
	var first, second bool

	hub.Subscribe(func(string) error {
		order = append(order, "a")
		return nil
	})
	hB = hub.Subscribe(func(string) error {
		order = append(order, "b")
		first = hub.Unsubscribe(hB)
		second = hub.Unsubscribe(hB)
		return nil
	})
	hub.Subscribe(func(string) error {
		order = append(order, "c")
		return nil
	})

	if n := hub.Publish("x"); n != 3 {
		t.Errorf("expected 3 deliveries, got %d", n)
	}
	if got := fmt.Sprint(order); got != "[a b c]" {
		t.Errorf("expected each subscriber invoked once in order, got %s", got)
	}
	if !first {
		t.Error("expected the first Unsubscribe to remove the subscription")
	}
	if second {
		t.Error("expected the repeated Unsubscribe to be a no-op")
	}
	if hub.Count() != 2 {
		t.Errorf("expected 2 subscribers left, got %d", hub.Count())
	}

	order = nil
	hub.Publish("y")
	if got := fmt.Sprint(order); got != "[a c]" {
		t.Errorf("expected only a and c on the next publish, got %s", got)
	}
}

func TestHub_SubscribeDuringPublish(t *testing.T) {
	hub := NewHub()
	var late recorder
	added := false

	hub.Subscribe(func(string) error {
		if !added {
			added = true
			hub.Subscribe(late.subscriber())
		}
		return nil
	})

	hub.Publish("one")
	if got := late.messages(); len(got) != 0 {
		t.Errorf("expected subscriber added mid-publish to miss that message, got %v", got)
	}

	hub.Publish("two")
	if got := late.messages(); len(got) != 1 || got[0] != "two" {
		t.Errorf("expected [two], got %v", got)
	}
}

func TestHub_FailuresAreContained(t *testing.T) {
	hub := NewHub()
	var before, after recorder

	hub.Subscribe(before.subscriber())
	hub.Subscribe(func(string) error { return fmt.Errorf("write: broken pipe") })
	hub.Subscribe(func(string) error { panic("boom") })
	hub.Subscribe(func(string) error { return ErrSlowSubscriber })
	hub.Subscribe(after.subscriber())

	if n := hub.Publish("m"); n != 2 {
		t.Errorf("expected 2 successful deliveries, got %d", n)
	}
	if len(before.messages()) != 1 || len(after.messages()) != 1 {
		t.Error("expected healthy subscribers on both sides of failures to receive the message")
	}

	stats := hub.Stats()
	if stats.Failed != 3 {
		t.Errorf("expected 3 failed deliveries, got %d", stats.Failed)
	}
	if stats.Delivered != 2 {
		t.Errorf("expected 2 delivered, got %d", stats.Delivered)
	}
	if stats.Published != 1 {
		t.Errorf("expected 1 published, got %d", stats.Published)
	}
	if hub.Count() != 5 {
		t.Errorf("expected failing subscribers to stay registered, got %d", hub.Count())
	}
}

func TestHub_TrySubscribeCapacity(t *testing.T) {
	hub := NewHub(WithMaxSubscribers(2))
	fn := func(string) error { return nil }

	for i := 0; i < 2; i++ {
		if _, err := hub.TrySubscribe(fn); err != nil {
			t.Fatalf("unexpected error on subscribe %d: %v", i, err)
		}
	}

	h, err := hub.TrySubscribe(fn)
	if err == nil {
		t.Fatal("expected error when hub is full")
	}
	if h.Active() {
		t.Error("expected inactive handle on refusal")
	}
	if !stderrors.Is(err, ErrHubFull) {
		t.Errorf("expected ErrHubFull, got %v", err)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.HTTPStatus != http.StatusServiceUnavailable || !appErr.Retryable {
		t.Errorf("expected retryable 503 AppError, got %+v", appErr)
	}
	if appErr.Details["limit"] != 2 {
		t.Errorf("expected limit 2 in details, got %v", appErr.Details["limit"])
	}

	if !hub.Subscribe(fn).Active() {
		t.Error("expected Subscribe to ignore the cap")
	}
}

func TestHub_Close(t *testing.T) {
	obs := &fakeObserver{}
	hub := NewHub(WithObserver(obs))
	var r recorder
	h := hub.Subscribe(r.subscriber())
	hub.Subscribe(r.subscriber())

	hub.Close()
	hub.Close()

	select {
	case <-hub.Done():
	default:
		t.Fatal("expected Done to be closed")
	}
	if hub.Count() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", hub.Count())
	}
	if n := hub.Publish("late"); n != 0 || len(r.messages()) != 0 {
		t.Errorf("expected publish after close to be a no-op, got %d deliveries", n)
	}
	if hub.Unsubscribe(h) {
		t.Error("expected unsubscribe after close to be a no-op")
	}
	if hub.Subscribe(r.subscriber()).Active() {
		t.Error("expected Subscribe after close to return an inactive handle")
	}
	if _, err := hub.TrySubscribe(r.subscriber()); !stderrors.Is(err, ErrHubClosed) {
		t.Errorf("expected ErrHubClosed, got %v", err)
	}
	if obs.subscribers != 0 {
		t.Errorf("expected observer gauge back to 0, got %d", obs.subscribers)
	}
}

func TestHub_Observer(t *testing.T) {
	obs := &fakeObserver{}
	hub := NewHub(WithObserver(obs))

	h := hub.Subscribe(func(string) error { return nil })
	hub.Subscribe(func(string) error { return fmt.Errorf("nope") })
	hub.Publish("m")
	hub.Unsubscribe(h)
	hub.Unsubscribe(h)

	if obs.publishes != 1 || obs.delivered != 1 || obs.failed != 1 {
		t.Errorf("unexpected publish observations: %+v", obs)
	}
	if obs.subscribers != 1 {
		t.Errorf("expected subscriber gauge 1, got %d", obs.subscribers)
	}
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h := hub.Subscribe(func(string) error { return nil })
				hub.Publish("m")
				hub.Unsubscribe(h)
			}
		}()
	}
	wg.Wait()

	if hub.Count() != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.Count())
	}
	if stats := hub.Stats(); stats.Published != 1000 {
		t.Errorf("expected 1000 publishes, got %d", stats.Published)
	}
}
