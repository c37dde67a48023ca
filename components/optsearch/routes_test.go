package optsearch

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/demo"); got != "/demo/api/options" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("demo"); got != "/demo/api/options" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/demo/", WithRoutePath("search")); got != "/demo/search" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath(""); got != "/api/options" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := New(WithItems([]string{"Option 1"})).RegisterRoutes(mux, "/demo")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/demo/api/options" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	req := httptest.NewRequest(http.MethodGet, pattern+"?q=1&limit=1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
