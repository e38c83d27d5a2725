package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{name: "listed origin", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", method: http.MethodGet, wantOrigin: "http://localhost:3000", wantStatus: http.StatusOK},
		{name: "case insensitive", allowed: []string{"http://LOCALHOST:3000"}, origin: "http://localhost:3000", method: http.MethodGet, wantOrigin: "http://localhost:3000", wantStatus: http.StatusOK},
		{name: "unlisted origin", allowed: []string{"http://localhost:3000"}, origin: "http://evil.example", method: http.MethodGet, wantOrigin: "", wantStatus: http.StatusOK},
		{name: "wildcard", allowed: []string{"*"}, origin: "http://any.example", method: http.MethodGet, wantOrigin: "*", wantStatus: http.StatusOK},
		{name: "preflight", allowed: []string{"http://localhost:3000"}, origin: "http://localhost:3000", method: http.MethodOptions, wantOrigin: "http://localhost:3000", wantStatus: http.StatusNoContent},
		{name: "no config", allowed: nil, origin: "http://localhost:3000", method: http.MethodGet, wantOrigin: "", wantStatus: http.StatusOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			h := CORS(tc.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tc.method, "/api/events", nil)
			req.Header.Set("Origin", tc.origin)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("expected allow origin %q, got %q", tc.wantOrigin, got)
			}
		})
	}
}
