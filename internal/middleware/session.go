package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/agentdeskhq/agentdesk/internal/adapter/otel"
	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/port/identity"
)

// Gate is middleware that guards a route group.
type Gate = func(http.Handler) http.Handler

type sessionCtxKey struct{}

// SessionGate returns middleware that verifies the request's session
// cookies against the identity provider. Requests without a valid
// session are rejected with 401 before reaching the handler. Refreshed
// session cookies issued during verification are relayed to the client.
func SessionGate(verifier identity.Verifier, metrics *otel.Metrics) Gate {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics.RecordSessionCheck(r.Context())

			sess, err := verifier.Verify(r.Context(), r)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					metrics.RecordSessionDenied(r.Context())
					writeUnauthorized(w)
					return
				}
				slog.Error("session verification failed", "error", err)
				http.Error(w, `{"error":"session verification failed"}`, http.StatusBadGateway)
				return
			}

			for _, ck := range sess.SetCookies {
				http.SetCookie(w, ck)
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the verified session stored by SessionGate.
func SessionFromContext(ctx context.Context) (*identity.Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey{}).(*identity.Session)
	return sess, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
