package server

import (
	"sort"
	"strings"
)

// systemPaths are the operational routes registered by RegisterDefaultEndpoints.
var systemPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/alive":   true,
	"/info":    true,
	"/version": true,
	"/metrics": true,
}

// Route describes a registered Gin route.
type Route struct {
	Method  string
	Path    string
	Handler string
	System  bool
}

// Routes lists the Gin routes, application routes first, then system routes,
// each group sorted by path and method.
func (s *Server) Routes() []Route {
	ginRoutes := s.engine.Routes()
	routes := make([]Route, 0, len(ginRoutes))
	for _, r := range ginRoutes {
		routes = append(routes, Route{
			Method:  r.Method,
			Path:    r.Path,
			Handler: formatHandlerName(r.Handler),
			System:  systemPaths[r.Path],
		})
	}

	sort.Slice(routes, func(i, j int) bool {
		if routes[i].System != routes[j].System {
			return !routes[i].System
		}
		if routes[i].Path != routes[j].Path {
			return routes[i].Path < routes[j].Path
		}
		return methodOrder(routes[i].Method) < methodOrder(routes[j].Method)
	})
	return routes
}

// formatHandlerName trims Gin's fully qualified handler name down to
// "pkg.Func": "github.com/x/relay.(*Ingress).Handle-fm" → "relay.(*Ingress).Handle".
func formatHandlerName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(name, "-fm")
	if i := strings.Index(name, ".func"); i > 0 {
		name = name[:i]
	}
	return name
}

// methodOrder returns a sort key for HTTP methods (GET first).
func methodOrder(method string) int {
	switch method {
	case "GET":
		return 0
	case "POST":
		return 1
	case "PUT":
		return 2
	case "PATCH":
		return 3
	case "DELETE":
		return 4
	default:
		return 5
	}
}
