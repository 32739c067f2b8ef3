package middleware

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"net/http"

	"physio/internal/domain/account"

	"github.com/gorilla/securecookie"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionCookieName is the name of the signed session cookie.
const SessionCookieName = "physio_session"

// sessionMaxAge is the cookie and signature lifetime in seconds.
const sessionMaxAge = 86400

// Session is the typed identity attached to an authenticated request.
// It is only ever built from a successful login result.
type Session struct {
	UserID      string
	Role        account.Role
	DisplayName string
}

// SessionCodec signs and encrypts sessions into a cookie value.
type SessionCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewSessionCodec derives the hash and block keys from secret.
// PRE: secret is non-empty
// POST: Returns a codec whose cookies expire after 24 hours
func NewSessionCodec(secret string, secure bool) *SessionCodec {
	hashKey := sha256.Sum256([]byte("session-hash:" + secret))
	blockKey := sha256.Sum256([]byte("session-block:" + secret))
	sc := securecookie.New(hashKey[:], blockKey[:])
	sc.MaxAge(sessionMaxAge)
	return &SessionCodec{sc: sc, secure: secure}
}

// Write sets the session cookie on the response.
// PRE: sess was built from a successful login
// POST: Cookie is set, or an error is returned and no cookie is written
func (c *SessionCodec) Write(w http.ResponseWriter, sess Session) error {
	value, err := c.sc.Encode(SessionCookieName, sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   sessionMaxAge,
	})
	return nil
}

// Read decodes the session cookie of r.
// PRE: none
// POST: Returns false for a missing, expired or tampered cookie
func (c *SessionCodec) Read(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}
	var sess Session
	if err := c.sc.Decode(SessionCookieName, cookie.Value, &sess); err != nil {
		slog.Debug("auth_event", "event", "session_rejected", "error", err)
		return Session{}, false
	}
	return sess, true
}

// Clear removes the session cookie. Safe to call without a session.
func (c *SessionCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// Auth returns middleware that decodes the session cookie and puts the session in context.
// It does NOT block unauthenticated requests; use RequireAuth or RequireRole for that.
func Auth(codec *SessionCodec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, ok := codec.Read(r); ok {
				r = r.WithContext(ContextWithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that redirects requests without a session to /login.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that redirects to /login unless the session holds role.
// Wrong-role requests are not told why.
func RequireRole(role account.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := GetSessionFromContext(r.Context())
			if !ok || sess.Role != role {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(Session)
	return sess, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}
