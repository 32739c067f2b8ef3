package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/csrf"
)

// TestRateLimiter_Burst verifies a client is cut off after its burst and others are not.
func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d rejected within burst", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request beyond burst allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client rejected")
	}

	fixed = fixed.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Error("token not refilled after one second")
	}
}

// TestRateLimiter_EvictsIdle verifies idle visitors are dropped.
func TestRateLimiter_EvictsIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.Allow("a")

	now = now.Add(10 * time.Minute)
	rl.Allow("b")
	if _, ok := rl.visitors["a"]; ok {
		t.Error("idle visitor not evicted")
	}
}

// TestRateLimit_Middleware verifies 429 once the bucket is empty.
func TestRateLimit_Middleware(t *testing.T) {
	h := RateLimit(NewRateLimiter(0.001, 1))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	codes := make([]int, 2)
	for i := range codes {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 429]", codes)
	}
}

// TestSecurityHeaders verifies the headers are set.
func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

// TestCSRF_RejectsPostWithoutToken verifies form posts need a token and GETs do not.
func TestCSRF_RejectsPostWithoutToken(t *testing.T) {
	h := CSRF("secret", false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csrf.Token(r)))
	}))

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/login", nil))
	if get.Code != http.StatusOK || get.Body.Len() == 0 {
		t.Fatalf("GET = %d body %q", get.Code, get.Body.String())
	}

	post := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.ServeHTTP(post, req)
	if post.Code != http.StatusForbidden {
		t.Errorf("POST without token = %d, want 403", post.Code)
	}
}

// TestCSRF_AcceptsValidToken replays the token and cookie from a GET.
func TestCSRF_AcceptsValidToken(t *testing.T) {
	h := CSRF("secret", false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(csrf.Token(r)))
	}))

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/login", nil))
	token := get.Body.String()

	form := url.Values{"gorilla.csrf.Token": {token}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range get.Result().Cookies() {
		req.AddCookie(c)
	}
	post := httptest.NewRecorder()
	h.ServeHTTP(post, req)
	if post.Code != http.StatusOK {
		t.Errorf("POST with token = %d, want 200", post.Code)
	}
}

// TestChain verifies the last middleware runs first.
func TestChain(t *testing.T) {
	var order []string
	mk := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}), mk("inner"), mk("outer")).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("order = %v", order)
	}
}
