package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/auth"
	"github.com/jaredshillingburg/icehockey-analytics/logging"
	"github.com/jaredshillingburg/icehockey-analytics/telemetry"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the User a prior auth middleware attached to
// the request, or nil if none is present.
func UserFromContext(ctx context.Context) *auth.User {
	u, _ := ctx.Value(userContextKey).(*auth.User)
	return u
}

// RequestLogger attaches a request-scoped zerolog logger (grounded on
// logging.With) carrying the route and a request id, mirroring
// cartographus's RequestIDWithLogging middleware.
func RequestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := uuid.NewString()
			w.Header().Set("X-Request-Id", reqID)
			scoped := logging.With(log, logging.RequestFields{Route: r.URL.Path}).
				With().Str("request_id", reqID).Logger()
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(scoped.WithContext(r.Context())))
			scoped.Info().
				Str("method", r.Method).
				Dur("duration", time.Since(start)).
				Msg("request handled")
		})
	}
}

// Metrics records per-route request duration and status into registry,
// grounded on cryptorun's internal/interfaces/http/metrics.go middleware
// idiom.
func Metrics(registry *telemetry.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := registry.StartRequestTimer(r.URL.Path, r.Method)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			timer.Stop(ww.Status())
		})
	}
}

// CORS applies a permissive CORS policy suitable for the dashboard
// frontend, short-circuiting preflight OPTIONS requests.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-User-Timezone, X-Timezone, X-TZ")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Timeout bounds every request to d, per spec.md §5's "bounded timeouts
// (10-30s depending on surface)" rule.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return middleware.Timeout(d)
}

// RequireAuth resolves a strict bearer-token user via resolver and
// rejects the request with unauthorized/forbidden before the handler
// runs, per spec.md §4.1.
func RequireAuth(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, apiErr := resolver.ResolveUser(r)
			if apiErr != nil {
				WriteError(w, apiErr)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermissiveAuth resolves a media user via the dev-override-aware
// resolver, used by clip streaming endpoints.
func RequirePermissiveAuth(resolver *auth.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, apiErr := resolver.ResolveUserPermissive(r)
			if apiErr != nil {
				WriteError(w, apiErr)
				return
			}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireUser fetches the authenticated user from context or writes an
// internal error if a handler is wired behind the wrong middleware.
func requireUser(w http.ResponseWriter, r *http.Request) (*auth.User, bool) {
	user := UserFromContext(r.Context())
	if user == nil {
		WriteError(w, apperr.New(apperr.Internal, "httpapi.requireUser", "handler missing auth middleware"))
		return nil, false
	}
	return user, true
}
