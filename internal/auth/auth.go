// Package auth resolves the request owner. Token issuance belongs to an
// external identity system; this package only verifies a presented bearer
// token and threads the resulting owner id through the request context.
// Every data-access call downstream is scoped by that owner id.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey struct{}

// TokenVerifier maps a bearer token to the owner id it was issued for.
type TokenVerifier interface {
	OwnerForToken(ctx context.Context, token string) (string, error)
}

// WithOwner returns a context carrying the owner id.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, contextKey{}, ownerID)
}

// OwnerFrom extracts the owner id placed by the middleware.
func OwnerFrom(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(contextKey{}).(string)
	return owner, ok && owner != ""
}

// Middleware rejects requests without a resolvable owner. Unknown tokens get
// the same response as missing ones.
func Middleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			owner, err := verifier.OwnerForToken(r.Context(), token)
			if err != nil {
				slog.WarnContext(r.Context(), "Token rejected", "path", r.URL.Path)
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error": "missing or invalid credentials"}`))
}
