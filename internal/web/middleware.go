package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"go.opentelemetry.io/otel/trace"

	"github.com/erazemk/cruisedesk/internal/gateway"
	"github.com/erazemk/cruisedesk/internal/model"
	"github.com/erazemk/cruisedesk/internal/nav"
	"github.com/erazemk/cruisedesk/internal/session"
)

// Console cookies carry this prefix and are never forwarded to the backend.
const consoleCookiePrefix = "console_"

const (
	sidCookie  = consoleCookiePrefix + "sid"
	csrfCookie = consoleCookiePrefix + "csrf"
)

type webContextKey string

const (
	userKey webContextKey = "user"
	sidKey  webContextKey = "sid"
)

// GetUser returns the identity the route guard attached to ctx.
func GetUser(ctx context.Context) *model.AuthUser {
	u, _ := ctx.Value(userKey).(*model.AuthUser)
	return u
}

// GetSID returns the console session id of the browser.
func GetSID(ctx context.Context) string {
	sid, _ := ctx.Value(sidKey).(string)
	return sid
}

// RecoverMiddleware answers a panicking handler with 500.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic while serving request", "method", r.Method, "path", r.URL.Path,
					"panic", rec, "stack", string(debug.Stack()))
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request with a request id and, when the
// request carries a span, its trace id.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start).String(),
			"request_id", requestID,
		}
		if sc := trace.SpanContextFromContext(r.Context()); sc.HasTraceID() {
			attrs = append(attrs, "trace_id", sc.TraceID().String())
		}
		slog.Info("console request", attrs...)
	})
}

// SessionIDMiddleware gives every browser a console session id, used to key
// toasts that survive a redirect.
func (s *Server) SessionIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sid string
		if c, err := r.Cookie(sidCookie); err == nil && uuid.Validate(c.Value) == nil {
			sid = c.Value
		} else {
			sid = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sidCookie,
				Value:    sid,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.SecureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sidKey, sid)))
	})
}

// relayWriter copies the cookies the backend set during a request onto the
// response before its header goes out.
type relayWriter struct {
	http.ResponseWriter
	jar     *gateway.Cookies
	secure  bool
	flushed bool
}

func (rw *relayWriter) relay() {
	if rw.flushed {
		return
	}
	rw.flushed = true
	for _, ck := range rw.jar.Drain() {
		http.SetCookie(rw.ResponseWriter, &http.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Path:     "/",
			MaxAge:   ck.MaxAge,
			Expires:  ck.Expires,
			HttpOnly: true,
			Secure:   rw.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (rw *relayWriter) WriteHeader(code int) {
	rw.relay()
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *relayWriter) Write(b []byte) (int, error) {
	rw.relay()
	return rw.ResponseWriter.Write(b)
}

// CookieRelayMiddleware forwards the browser's backend cookies on every
// gateway call made for the request and relays the ones the backend sets.
func (s *Server) CookieRelayMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var forward []*http.Cookie
		for _, c := range r.Cookies() {
			if !strings.HasPrefix(c.Name, consoleCookiePrefix) {
				forward = append(forward, c)
			}
		}
		jar := gateway.NewCookies(forward)
		rw := &relayWriter{ResponseWriter: w, jar: jar, secure: s.SecureCookies}
		next.ServeHTTP(rw, r.WithContext(gateway.WithCookies(r.Context(), jar)))
		rw.relay()
	})
}

// CSRFMiddleware protects every console form. A nil key disables it.
func CSRFMiddleware(key []byte, secure bool) func(http.Handler) http.Handler {
	if key == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		protect := csrf.Protect(key,
			csrf.Secure(secure),
			csrf.Path("/"),
			csrf.CookieName(csrfCookie),
			csrf.FieldName("csrf_token"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				slog.Warn("csrf check failed", "path", r.URL.Path, "reason", csrf.FailureReason(r))
				http.Error(w, "The form has expired. Go back, reload the page and try again.", http.StatusForbidden)
			})),
		)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}
			protect.ServeHTTP(w, r)
		})
	}
}

// requireScreen guards a screen path. Anonymous visitors go to the login
// page with the original location in next; paths outside the role's route
// table go to the first child of a group or to the default screen.
func (s *Server) requireScreen(path string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := session.New(s.Client).Check(r.Context())
		if user == nil {
			redirectToLogin(w, r, path)
			return
		}

		if _, ok := nav.RouteTable(s.Menu, user.Role)[path]; !ok {
			if target, ok := nav.GroupTarget(s.Menu, user.Role, path); ok {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			slog.Warn("screen not available for role", "user", user.Email, "role", user.Role, "path", path)
			http.Redirect(w, r, nav.DefaultPath, http.StatusSeeOther)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// requireGroup sends a grouping path to its first child visible to the user.
func (s *Server) requireGroup(path string) http.Handler {
	return s.requireScreen(path, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, nav.DefaultPath, http.StatusSeeOther)
	})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, screen string) {
	next := screen
	if r.Method == http.MethodGet {
		next = r.URL.RequestURI()
	}
	http.Redirect(w, r, "/login?next="+url.QueryEscape(next), http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return nav.DefaultPath
	}
	return next
}
