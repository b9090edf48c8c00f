package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/chatrelay/component"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	r := gin.New()
	r.GET("/", h)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return rr, body
}

func checker(statuses ...component.HealthStatus) HealthChecker {
	return func(context.Context) []component.Health {
		out := make([]component.Health, 0, len(statuses))
		for i, s := range statuses {
			out = append(out, component.Health{Name: string(rune('a' + i)), Status: s})
		}
		return out
	}
}

func TestOverall(t *testing.T) {
	tests := []struct {
		name string
		in   []component.HealthStatus
		want component.HealthStatus
	}{
		{"empty", nil, component.StatusHealthy},
		{"all healthy", []component.HealthStatus{component.StatusHealthy, component.StatusHealthy}, component.StatusHealthy},
		{"degraded", []component.HealthStatus{component.StatusHealthy, component.StatusDegraded}, component.StatusDegraded},
		{"unhealthy wins", []component.HealthStatus{component.StatusDegraded, component.StatusUnhealthy}, component.StatusUnhealthy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overall(checker(tc.in...)(context.Background())); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestHealth_Healthy(t *testing.T) {
	rr, body := serve(t, Health("relay", checker(component.StatusHealthy)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", body["status"])
	}
	if body["service"] != "relay" {
		t.Errorf("expected service relay, got %v", body["service"])
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	rr, body := serve(t, Health("relay", checker(component.StatusHealthy, component.StatusUnhealthy)))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if body["status"] != "unhealthy" {
		t.Errorf("expected unhealthy, got %v", body["status"])
	}
}

func TestHealth_DegradedIsStillOK(t *testing.T) {
	rr, body := serve(t, Health("relay", checker(component.StatusDegraded)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if body["status"] != "degraded" {
		t.Errorf("expected degraded, got %v", body["status"])
	}
}

func TestHealth_NilChecker(t *testing.T) {
	rr, _ := serve(t, Health("relay", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestReadiness(t *testing.T) {
	rr, body := serve(t, Readiness("relay", checker(component.StatusHealthy)))
	if rr.Code != http.StatusOK || body["status"] != "ready" {
		t.Fatalf("expected 200 ready, got %d %v", rr.Code, body["status"])
	}

	rr, body = serve(t, Readiness("relay", checker(component.StatusUnhealthy)))
	if rr.Code != http.StatusServiceUnavailable || body["status"] != "not_ready" {
		t.Fatalf("expected 503 not_ready, got %d %v", rr.Code, body["status"])
	}
}

func TestLiveness(t *testing.T) {
	rr, body := serve(t, Liveness("relay"))
	if rr.Code != http.StatusOK || body["status"] != "alive" {
		t.Fatalf("expected 200 alive, got %d %v", rr.Code, body["status"])
	}
}

func TestInfo(t *testing.T) {
	_, body := serve(t, Info("relay"))
	for _, key := range []string{"service", "version", "go_version", "uptime", "timestamp"} {
		if _, ok := body[key]; !ok {
			t.Errorf("expected key %q in info response", key)
		}
	}
}

func TestVersion(t *testing.T) {
	_, body := serve(t, Version())
	if body["version"] == "" || body["version"] == nil {
		t.Errorf("expected a version, got %v", body["version"])
	}
	if _, ok := body["go_version"]; !ok {
		t.Error("expected go_version in version response")
	}
}

func TestMetrics(t *testing.T) {
	_, body := serve(t, Metrics())
	if _, ok := body["goroutines"]; !ok {
		t.Error("expected goroutines in metrics response")
	}
	mem, ok := body["memory"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected memory object, got %v", body["memory"])
	}
	if _, ok := mem["gc_runs"]; !ok {
		t.Error("expected gc_runs in memory stats")
	}
}

func TestMetrics_Sources(t *testing.T) {
	src := func() (string, any) { return "relay", map[string]int{"subscribers": 2} }
	shadow := func() (string, any) { return "memory", "overwritten" }

	_, body := serve(t, Metrics(src, shadow))

	relay, ok := body["relay"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected relay section, got %v", body["relay"])
	}
	if relay["subscribers"] != float64(2) {
		t.Errorf("expected 2 subscribers, got %v", relay["subscribers"])
	}
	if _, ok := body["memory"].(map[string]interface{}); !ok {
		t.Error("expected built-in memory section not to be replaced")
	}
}
