// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"
	"time"

	"github.com/carterperez-dev/templates/projects-api/internal/config"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := resp.Header().Get(RequestIDHeader); got != seen {
		t.Fatalf("header %q does not match context %q", got, seen)
	}
}

func TestRequestIDReusesIncoming(t *testing.T) {
	h := RequestID(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected incoming id to be reused, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get(RequestIDHeader); len(got) > maxRequestIDLength {
		t.Fatalf("oversized id was not replaced")
	}
}

func testCORSConfig() config.CORSConfig {
	return config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS(testCORSConfig())(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Methods"); got != "POST" {
		t.Fatalf("unexpected allow-methods %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("unexpected allow-credentials %q", got)
	}
	if got := resp.Header().Get("Access-Control-Max-Age"); got != "300" {
		t.Fatalf("unexpected max-age %q", got)
	}
}

func TestCORSDisallowedOrigin(t *testing.T) {
	h := CORS(testCORSConfig())(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "GET")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("preflight from disallowed origin was granted: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp = httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected simple request to pass through, got %d", resp.Code)
	}
	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("disallowed origin must not be echoed, got %q", got)
	}
}

func TestCORSExposesRequestID(t *testing.T) {
	h := CORS(testCORSConfig())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Expose-Headers"); got != RequestIDHeader {
		t.Fatalf("unexpected expose-headers %q", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	resp := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing nosniff")
	}
	if resp.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("missing HSTS in production")
	}

	resp = httptest.NewRecorder()
	SecurityHeaders(false)(okHandler).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS set outside production")
	}
}

func TestRateLimiterLocalFallback(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{
		Limit:      PerWindow(1, 1, time.Minute),
		BypassFunc: SkipPaths("/healthz"),
	})
	h := rl.Handler(okHandler)

	send := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "198.51.100.7:4000"
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, req)
		return resp
	}

	if resp := send("/api/v1/users"); resp.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", resp.Code)
	}

	resp := send("/api/v1/users")
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After")
	}
	if !strings.Contains(resp.Body.String(), "RATE_LIMITED") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}

	if resp := send("/healthz"); resp.Code != http.StatusOK {
		t.Fatalf("skipped path was limited: %d", resp.Code)
	}
}

func TestKeyByClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name    string
		trusted []netip.Prefix
		remote  string
		xff     string
		realIP  string
		want    string
	}{
		{name: "peer only", remote: "203.0.113.9:5555", want: "203.0.113.9"},
		{
			name:   "untrusted peer cannot spoof",
			remote: "203.0.113.9:5555",
			xff:    "192.0.2.44",
			realIP: "192.0.2.45",
			want:   "203.0.113.9",
		},
		{
			name:    "peer outside trusted range",
			trusted: trusted,
			remote:  "203.0.113.9:5555",
			xff:     "192.0.2.44",
			want:    "203.0.113.9",
		},
		{
			name:    "trusted proxy chain",
			trusted: trusted,
			remote:  "10.0.0.2:5555",
			xff:     "198.51.100.1, 192.0.2.44, 10.0.0.7",
			want:    "192.0.2.44",
		},
		{
			name:    "trusted proxy with real ip",
			trusted: trusted,
			remote:  "10.0.0.2:5555",
			realIP:  "192.0.2.50",
			want:    "192.0.2.50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := KeyByClientIP(tt.trusted)(req); got != "ratelimit:ip:"+tt.want {
				t.Fatalf("got %q, want %q", got, "ratelimit:ip:"+tt.want)
			}
		})
	}
}

func TestPerWindowDefaultsToMinute(t *testing.T) {
	if got := PerWindow(5, 2, 0); got.Period != time.Minute || got.Rate != 5 || got.Burst != 2 {
		t.Fatalf("unexpected limit %+v", got)
	}
}
