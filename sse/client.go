package sse

import "sync"

// Client is the hub-side end of one open stream. Its Deliver method is the
// Subscriber registered for the connection; only the request goroutine
// drains Events.
type Client struct {
	id         string
	remoteAddr string
	events     chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

// NewClient creates a client with an outbound queue of bufferSize frames.
func NewClient(id, remoteAddr string, bufferSize int) *Client {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Client{
		id:         id,
		remoteAddr: remoteAddr,
		events:     make(chan []byte, bufferSize),
		done:       make(chan struct{}),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// RemoteAddr returns the peer address of the stream request.
func (c *Client) RemoteAddr() string { return c.remoteAddr }

// Events returns the queue of framed events waiting to be written.
func (c *Client) Events() <-chan []byte { return c.events }

// Done is closed when the connection is closed.
func (c *Client) Done() <-chan struct{} { return c.done }

// Send queues an already framed event without blocking. It returns
// ErrConnectionClosed after Close and ErrSlowSubscriber when the queue is
// full; the frame is dropped in both cases.
func (c *Client) Send(frame []byte) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.events <- frame:
		return nil
	default:
		return ErrSlowSubscriber
	}
}

// Deliver frames message and queues it. It satisfies Subscriber.
func (c *Client) Deliver(message string) error {
	return c.Send(Format(message))
}

// Close marks the connection closed. The events channel is never closed so
// a concurrent Send cannot panic. Safe to call multiple times.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
