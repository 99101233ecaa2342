package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		preflight   bool
		wantStatus  int
		wantOrigin  string
		wantHandler bool
	}{
		{"listed origin", []string{"https://loja.example"}, http.MethodGet, "https://loja.example", false, http.StatusOK, "https://loja.example", true},
		{"listed with trailing slash", []string{"https://loja.example/"}, http.MethodGet, "https://loja.example", false, http.StatusOK, "https://loja.example", true},
		{"unknown origin", []string{"https://loja.example"}, http.MethodGet, "https://other.example", false, http.StatusOK, "", true},
		{"wildcard", []string{"*"}, http.MethodPost, "https://random.example", false, http.StatusOK, "https://random.example", true},
		{"no origin", []string{"https://loja.example"}, http.MethodGet, "", false, http.StatusOK, "", true},
		{"preflight allowed", []string{"https://loja.example"}, http.MethodOptions, "https://loja.example", true, http.StatusNoContent, "https://loja.example", false},
		{"preflight denied", []string{"https://loja.example"}, http.MethodOptions, "https://other.example", true, http.StatusForbidden, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(tt.method, "/sessions", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowed)(okHandler(&called)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantHandler, called)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.Equal(t, RequestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
			}
		})
	}
}
