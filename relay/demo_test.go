package relay

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEcho(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  EchoResponse
	}{
		{"empty", "", EchoResponse{Normal: "", Shouty: "", CharCount: 0, Backwards: ""}},
		{"ascii", "hello", EchoResponse{Normal: "hello", Shouty: "HELLO", CharCount: 5, Backwards: "olleh"}},
		{"accents", "héllo", EchoResponse{Normal: "héllo", Shouty: "HÉLLO", CharCount: 5, Backwards: "olléh"}},
		{"sharp s", "straße", EchoResponse{Normal: "straße", Shouty: "STRASSE", CharCount: 6, Backwards: "eßarts"}},
		{"astral", "a😀b", EchoResponse{Normal: "a😀b", Shouty: "A😀B", CharCount: 4, Backwards: "b😀a"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Echo(tc.input); got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func demoRouter() *gin.Engine {
	r := gin.New()
	r.GET("/", PageHandler)
	r.StaticFS("/static", staticFS())
	r.GET("/text", TextHandler)
	r.GET("/json", JSONHandler)
	r.GET("/echo", EchoHandler)
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", target, http.NoBody))
	return rr
}

func TestTextHandler(t *testing.T) {
	rr := get(t, demoRouter(), "/text")
	if rr.Code != http.StatusOK || rr.Body.String() != "hi" {
		t.Fatalf("expected 200 hi, got %d %q", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("expected text/plain, got %s", ct)
	}
}

func TestJSONHandler(t *testing.T) {
	rr := get(t, demoRouter(), "/json")
	var body struct {
		Text    string `json:"text"`
		Numbers []int  `json:"numbers"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Text != "hi" || len(body.Numbers) != 3 || body.Numbers[2] != 3 {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestEchoHandler(t *testing.T) {
	rr := get(t, demoRouter(), "/echo?input="+url.QueryEscape("abc"))
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["shouty"] != "ABC" || body["backwards"] != "cba" || body["charCount"] != float64(3) {
		t.Errorf("unexpected echo body: %v", body)
	}

	rr = get(t, demoRouter(), "/echo")
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["normal"] != "" || body["charCount"] != float64(0) {
		t.Errorf("expected empty input default, got %v", body)
	}
}

func TestPageAndStatic(t *testing.T) {
	r := demoRouter()

	rr := get(t, r, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/static/chat.js") {
		t.Error("expected chat page to reference chat.js")
	}

	rr = get(t, r, "/static/chat.js")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for chat.js, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "EventSource('/sse')") {
		t.Error("expected chat.js to open the stream")
	}

	if rr := get(t, r, "/static/missing.js"); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing asset, got %d", rr.Code)
	}
}
