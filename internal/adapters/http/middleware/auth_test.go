package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"physio/internal/domain/account"
)

// roundTripCookie writes sess with codec and returns a request carrying the cookie.
func roundTripCookie(t *testing.T, codec *SessionCodec, sess Session) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	if err := codec.Write(rec, sess); err != nil {
		t.Fatalf("Write: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

// TestSessionCodec_RoundTrip verifies a written session reads back unchanged.
func TestSessionCodec_RoundTrip(t *testing.T) {
	codec := NewSessionCodec("test-secret", false)
	want := Session{UserID: "u1", Role: account.RolePatient, DisplayName: "Patient"}

	got, ok := codec.Read(roundTripCookie(t, codec, want))
	if !ok {
		t.Fatal("Read returned no session")
	}
	if got != want {
		t.Errorf("session = %+v, want %+v", got, want)
	}
}

// TestSessionCodec_RejectsForeignSecret verifies cookies signed with another key are ignored.
func TestSessionCodec_RejectsForeignSecret(t *testing.T) {
	req := roundTripCookie(t, NewSessionCodec("one", false), Session{UserID: "u1", Role: account.RolePhysio})
	if _, ok := NewSessionCodec("two", false).Read(req); ok {
		t.Error("session accepted under a different secret")
	}
}

// TestSessionCodec_RejectsGarbage verifies tampered values are ignored.
func TestSessionCodec_RejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-session"})
	if _, ok := NewSessionCodec("s", false).Read(req); ok {
		t.Error("garbage cookie accepted")
	}
}

// TestSessionCodec_Clear verifies the clearing cookie expires immediately.
func TestSessionCodec_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewSessionCodec("s", true).Clear(rec)
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || !cookies[0].Secure {
		t.Errorf("cookies = %+v", cookies)
	}
}

// TestAuth_PopulatesContext verifies the middleware attaches the decoded session.
func TestAuth_PopulatesContext(t *testing.T) {
	codec := NewSessionCodec("s", false)
	var got Session
	var found bool
	h := Auth(codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, found = GetSessionFromContext(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), roundTripCookie(t, codec, Session{UserID: "u1", Role: account.RolePhysio}))
	if !found || got.UserID != "u1" {
		t.Errorf("session = %+v, %v", got, found)
	}

	found = false
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if found {
		t.Error("session found without cookie")
	}
}

// TestRequireRole covers missing sessions, wrong roles and the matching role.
func TestRequireRole(t *testing.T) {
	h := RequireRole(account.RolePatient)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		name     string
		sess     *Session
		wantCode int
	}{
		{name: "no session", wantCode: http.StatusSeeOther},
		{name: "physio", sess: &Session{UserID: "u", Role: account.RolePhysio}, wantCode: http.StatusSeeOther},
		{name: "corrupt role", sess: &Session{UserID: "u", Role: "admin"}, wantCode: http.StatusSeeOther},
		{name: "patient", sess: &Session{UserID: "u", Role: account.RolePatient}, wantCode: http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/patient", nil)
			if tt.sess != nil {
				req = req.WithContext(ContextWithSession(req.Context(), *tt.sess))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusSeeOther && rec.Header().Get("Location") != "/login" {
				t.Errorf("Location = %q, want /login", rec.Header().Get("Location"))
			}
		})
	}
}

// TestRequireAuth verifies anonymous requests are redirected.
func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
