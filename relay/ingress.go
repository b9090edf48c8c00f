package relay

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/chatrelay/errors"
	"github.com/kbukum/chatrelay/logger"
	"github.com/kbukum/chatrelay/observability"
	"github.com/kbukum/chatrelay/server"
	"github.com/kbukum/chatrelay/sse"
)

// MessageParam is the query or form field carrying the message.
const MessageParam = "message"

// LoggerName is the registry name ingress logs under.
const LoggerName = "relay"

// Ingress accepts messages over HTTP and broadcasts them.
type Ingress struct {
	publisher sse.Publisher
	log       *logger.Logger
}

// NewIngress creates an ingress publishing to p. It logs through the logger
// registered as LoggerName.
func NewIngress(p sse.Publisher) *Ingress {
	return &Ingress{publisher: p, log: logger.Get(LoggerName)}
}

// Handle reads the message from the query string, or for POST from the form
// body, publishes it and answers an empty 200. A missing message publishes
// the empty string. Subscriber failures never reach the caller.
func (i *Ingress) Handle(c *gin.Context) {
	message, err := readMessage(c.Request)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}

	ctx, span := observability.StartSpan(c.Request.Context(), observability.SpanRelayPublish)
	defer span.End()

	start := time.Now()
	delivered := i.publisher.Publish(message)

	observability.SetSpanAttribute(ctx, observability.AttrMessageSize, len(message))
	observability.SetSpanAttribute(ctx, observability.AttrDelivered, delivered)
	if id := logger.RequestIDFromContext(ctx); id != "" {
		observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
	}

	i.log.WithContext(ctx).Debug("[RELAY] Message published", logger.Fields(
		"size", len(message),
		"delivered", delivered,
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))

	server.RespondEmpty(c)
}

// readMessage prefers the query parameter; POST requests fall back to the
// form body. Oversized or malformed bodies are input errors.
func readMessage(r *http.Request) (string, error) {
	query := r.URL.Query()
	if r.Method != http.MethodPost || query.Has(MessageParam) {
		return query.Get(MessageParam), nil
	}
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return "", errors.InvalidInput(MessageParam, "request body too large").
				WithDetail("limit", tooLarge.Limit)
		}
		return "", errors.InvalidInput(MessageParam, "malformed form body").WithCause(err)
	}
	return r.PostForm.Get(MessageParam), nil
}
