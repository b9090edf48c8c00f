package sse

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/chatrelay/errors"
	"github.com/kbukum/chatrelay/observability"
)

// StreamOptions are the per-connection settings of a stream.
type StreamOptions struct {
	// BufferSize is the outbound queue length; DefaultBufferSize when <= 0.
	BufferSize int
	// KeepAlive is the comment interval; <= 0 disables keep-alives.
	KeepAlive time.Duration
	// MaxDuration ends the stream after this long; <= 0 means unlimited.
	MaxDuration time.Duration
}

// ServeStream subscribes the connection to hub and streams every published
// message until the client disconnects, the hub closes, a write fails or
// MaxDuration elapses. The subscription is removed exactly once on every
// exit path.
//
// An error is returned only when the stream is refused before any header is
// written; it is an *errors.AppError the caller should render.
func ServeStream(hub *Hub, w http.ResponseWriter, r *http.Request, opts StreamOptions) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		hub.log.Error("[SSE] Streaming not supported", map[string]interface{}{
			"remote_addr": r.RemoteAddr,
		})
		return errors.StreamingUnsupported()
	}

	client := NewClient(uuid.NewString(), r.RemoteAddr, opts.BufferSize)
	handle, err := hub.TrySubscribe(client.Deliver)
	if err != nil {
		hub.log.Warn("[SSE] Stream refused", map[string]interface{}{
			"client_id":   client.ID(),
			"remote_addr": r.RemoteAddr,
			"error":       err.Error(),
		})
		return err
	}

	var release sync.Once
	defer release.Do(func() {
		client.Close()
		hub.Unsubscribe(handle)
	})

	// Streams are long-lived; the server's WriteTimeout must not end them.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		hub.log.Debug("[SSE] Could not disable write deadline", map[string]interface{}{
			"client_id": client.ID(),
			"error":     err.Error(),
		})
	}

	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	observability.SetSpanAttribute(ctx, observability.AttrSubscriberID, client.ID())
	hub.log.Debug("[SSE] Client connected", map[string]interface{}{
		"client_id":   client.ID(),
		"remote_addr": r.RemoteAddr,
	})

	var keepAlive <-chan time.Time
	if opts.KeepAlive > 0 {
		ticker := time.NewTicker(opts.KeepAlive)
		defer ticker.Stop()
		keepAlive = ticker.C
	}

	var deadline <-chan time.Time
	if opts.MaxDuration > 0 {
		timer := time.NewTimer(opts.MaxDuration)
		defer timer.Stop()
		deadline = timer.C
	}

	reason := "client disconnected"
	defer func() {
		hub.log.Debug("[SSE] Client disconnected", map[string]interface{}{
			"client_id": client.ID(),
			"reason":    reason,
		})
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-hub.Done():
			reason = "hub closed"
			return nil

		case <-deadline:
			reason = "max duration reached"
			return nil

		case frame := <-client.Events():
			if _, err := w.Write(frame); err != nil {
				reason = "write failed: " + err.Error()
				return nil
			}
			flusher.Flush()

		case now := <-keepAlive:
			if _, err := w.Write(KeepAliveComment(now)); err != nil {
				reason = "write failed: " + err.Error()
				return nil
			}
			flusher.Flush()
		}
	}
}

// Handler serves streams for a hub as a plain http.Handler.
type Handler struct {
	hub  *Hub
	opts StreamOptions
}

// NewHandler creates a stream handler.
func NewHandler(hub *Hub, opts StreamOptions) *Handler {
	return &Handler{hub: hub, opts: opts}
}

// ServeHTTP implements http.Handler. Refused streams get a JSON error body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, r, errors.MethodNotAllowed(r.Method, r.URL.Path))
		return
	}
	if err := ServeStream(h.hub, w, r, h.opts); err != nil {
		appErr, ok := errors.AsAppError(err)
		if !ok {
			appErr = errors.Internal(err)
		}
		writeError(w, r, appErr)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr.ResponseFor(r))
}
