package relay

import (
	"fmt"
	"net/http"

	"github.com/kbukum/chatrelay/bootstrap"
	"github.com/kbukum/chatrelay/component"
	"github.com/kbukum/chatrelay/logger"
	"github.com/kbukum/chatrelay/observability"
	"github.com/kbukum/chatrelay/server"
	"github.com/kbukum/chatrelay/sse"
)

const meterName = "github.com/kbukum/chatrelay/relay"

// Relay is the assembled service: the application lifecycle plus the hub
// and server it runs.
type Relay struct {
	*bootstrap.App[*Config]

	Hub    *sse.Hub
	Server *server.Server
}

// New validates cfg and wires the hub, HTTP server and telemetry into an
// application. Components start in the order telemetry, hub, server and
// stop in reverse.
func New(cfg *Config, opts ...bootstrap.Option) (*Relay, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}

	logger.Register(LoggerName, app.Logger.WithComponent(LoggerName))
	logger.Register(sse.LoggerName, app.Logger.WithComponent(sse.LoggerName))

	metrics, err := observability.NewRelayMetrics(observability.Meter(meterName))
	if err != nil {
		return nil, fmt.Errorf("relay metrics: %w", err)
	}

	hub := sse.NewHub(
		sse.WithMaxSubscribers(cfg.Stream.MaxSubscribers),
		sse.WithObserver(metrics),
	)

	srv := server.New(cfg.Server, app.Logger)
	srv.AddStatsSource(func() (string, any) { return "relay", hub.Stats() })
	srv.ApplyDefaults(cfg.Name, app.Components.HealthAll)
	RegisterRoutes(srv, hub, cfg)
	// Open streams never go idle; end them before the server waits on them.
	srv.OnShutdown(hub.Close)

	svc := observability.ServiceInfo{Name: cfg.Name, Version: cfg.Version, Environment: cfg.Environment}
	for _, c := range []component.Component{
		observability.NewComponent(svc, cfg.Observability),
		sse.NewComponent(hub, cfg.Stream.Path),
		server.NewComponent(srv),
	} {
		if err := app.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	app.Summary.TrackRoute(http.MethodGet, cfg.Stream.Path, "sse.Handler")
	for _, r := range srv.Routes() {
		app.Summary.TrackRoute(r.Method, r.Path, r.Handler)
	}

	return &Relay{App: app, Hub: hub, Server: srv}, nil
}
