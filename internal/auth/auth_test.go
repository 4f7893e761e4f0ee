package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type staticVerifier map[string]string

func (v staticVerifier) OwnerForToken(_ context.Context, token string) (string, error) {
	owner, ok := v[token]
	if !ok {
		return "", errors.New("unknown token")
	}
	return owner, nil
}

func TestMiddleware(t *testing.T) {
	verifier := staticVerifier{"tok-alice": "alice"}

	var gotOwner string
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner, _ = OwnerFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantOwner  string
	}{
		{name: "valid token", header: "Bearer tok-alice", wantStatus: http.StatusOK, wantOwner: "alice"},
		{name: "unknown token", header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotOwner = ""
			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if gotOwner != tt.wantOwner {
				t.Errorf("owner = %q, want %q", gotOwner, tt.wantOwner)
			}
		})
	}
}

func TestOwnerFrom(t *testing.T) {
	if _, ok := OwnerFrom(context.Background()); ok {
		t.Error("bare context should have no owner")
	}
	owner, ok := OwnerFrom(WithOwner(context.Background(), "alice"))
	if !ok || owner != "alice" {
		t.Errorf("OwnerFrom = (%q, %v)", owner, ok)
	}
}
