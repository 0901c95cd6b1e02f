package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexskv/prodviz/internal/server/auth"
)

func TestRequireAuth_MissingHeader(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/v1/records", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got %d, want 401", w.Code)
	}
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "sometoken"},
		{"wrong scheme", "Basic sometoken"},
		{"empty token", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()
			e.server.Handler().ServeHTTP(w, req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want 401", w.Code)
			}
		})
	}
}

func TestRequireAuth_InvalidSignature(t *testing.T) {
	e := newTestEnv(t)

	token, err := auth.GenerateToken("u-1", "alice", []byte("other-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	w := e.do(t, http.MethodGet, "/api/v1/records", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403", w.Code)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	e := newTestEnv(t)

	token, err := auth.GenerateToken("u-1", "alice", []byte(testSecret), -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	w := e.do(t, http.MethodGet, "/api/v1/records", token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("got %d, want 403", w.Code)
	}
}

func TestRequireAuth_ClaimsInContext(t *testing.T) {
	e := newTestEnv(t)

	token, err := auth.GenerateToken("u-1", "alice", []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	var gotID, gotName string
	h := e.server.requireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
		gotName, _ = UsernameFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/records", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if gotID != "u-1" || gotName != "alice" {
		t.Fatalf("claims in context: got (%q, %q)", gotID, gotName)
	}
}

func TestWithCORS_Preflight(t *testing.T) {
	e := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/records", nil)
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("got %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin: got %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Fatal("Allow-Headers header missing")
	}
}

func TestWithCORS_HeadersOnNormalRequest(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "nobody", "password": "x",
	})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin: got %q", got)
	}
}
