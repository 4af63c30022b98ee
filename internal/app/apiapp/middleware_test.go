package apiapp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TumaeProject/tumae-be/internal/services/identity"
)

func TestIdentityMiddlewareRejectsMissingHeader(t *testing.T) {
	mw := IdentityMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/match/candidates", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without identity header")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestIdentityMiddlewareRejectsMalformedHeader(t *testing.T) {
	mw := IdentityMiddleware()

	for _, value := range []string{"abc", "-5", "0", "1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/match/candidates", nil)
		req.Header.Set(UserIDHeader, value)
		rr := httptest.NewRecorder()

		mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			t.Fatalf("handler must not be called for header %q", value)
		})).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status for header %q: got %d want %d", value, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestIdentityMiddlewareSetsIdentityContext(t *testing.T) {
	mw := IdentityMiddleware()

	req := httptest.NewRequest(http.MethodGet, "/match/candidates", nil)
	req.Header.Set(UserIDHeader, "12345")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		if !ok || id.UserID != 12345 {
			t.Fatalf("identity missing or wrong in context: %+v ok=%v", id, ok)
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}
