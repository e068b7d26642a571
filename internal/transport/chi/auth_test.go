package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func authProtected(keys []string) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return BearerAuthMiddleware(keys)(next)
}

func authRequest(h http.Handler, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBearerAuth_Disabled(t *testing.T) {
	h := authProtected(nil)

	if rec := authRequest(h, "/api/v1/search", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want pass-through without keys", rec.Code)
	}
}

func TestBearerAuth_ValidToken(t *testing.T) {
	h := authProtected([]string{"secret-key"})

	if rec := authRequest(h, "/api/v1/search", "Bearer secret-key"); rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	h := authProtected([]string{"secret-key"})

	if rec := authRequest(h, "/api/v1/search", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	h := authProtected([]string{"secret-key"})

	if rec := authRequest(h, "/api/v1/search", "Basic secret-key"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBearerAuth_UnknownToken(t *testing.T) {
	h := authProtected([]string{"secret-key"})

	if rec := authRequest(h, "/api/v1/search", "Bearer other-key"); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBearerAuth_ExemptPaths(t *testing.T) {
	h := authProtected([]string{"secret-key"})

	for _, path := range []string{"/health", "/metrics"} {
		if rec := authRequest(h, path, ""); rec.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want exempt", path, rec.Code)
		}
	}
}
