package relay

import (
	"net/http"

	"github.com/kbukum/chatrelay/logger"
	"github.com/kbukum/chatrelay/observability"
	"github.com/kbukum/chatrelay/server"
	"github.com/kbukum/chatrelay/sse"
)

// RegisterRoutes mounts the relay on srv: the ingress endpoint and demo
// routes on the Gin engine, the stream handler on the root mux. Streams skip
// Gin so they get the raw, unwrappable ResponseWriter they need to clear the
// server write deadline.
func RegisterRoutes(srv *server.Server, hub *sse.Hub, cfg *Config) {
	ingress := NewIngress(hub)
	engine := srv.GinEngine()
	engine.GET(cfg.IngressPath, ingress.Handle)
	engine.POST(cfg.IngressPath, ingress.Handle)

	srv.Handle(cfg.Stream.Path, traceStream(sse.NewHandler(hub, cfg.Stream.StreamOptions())))

	if cfg.DisableDemo {
		return
	}
	engine.GET("/", PageHandler)
	engine.StaticFS("/static", staticFS())
	engine.GET("/text", TextHandler)
	engine.GET("/json", JSONHandler)
	engine.GET("/echo", EchoHandler)
}

// traceStream wraps each stream in a relay.stream span.
func traceStream(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := observability.StartSpan(r.Context(), observability.SpanRelayStream)
		defer span.End()
		if id := logger.RequestIDFromContext(ctx); id != "" {
			observability.SetSpanAttribute(ctx, observability.AttrRequestID, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
