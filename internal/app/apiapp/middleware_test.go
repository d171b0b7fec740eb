package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAdminAuthAcceptsConfiguredToken(t *testing.T) {
	next, called := okHandler()
	handler := AdminAuthMiddleware("secret-token", nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("status = %d, called = %v", rec.Code, *called)
	}
}

func TestAdminAuthRejectsBadToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong token", "Bearer wrong"},
		{"not bearer", "Basic secret-token"},
		{"empty bearer", "Bearer "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next, called := okHandler()
			handler := AdminAuthMiddleware("secret-token", nil)(next)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if *called {
				t.Fatalf("handler reached without valid token")
			}
		})
	}
}

func TestAdminAuthDisabledWithoutConfiguredToken(t *testing.T) {
	next, called := okHandler()
	handler := AdminAuthMiddleware("", nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audit", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if *called {
		t.Fatalf("handler reached with the admin API disabled")
	}
}
