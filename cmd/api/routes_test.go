package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUnknownRouteRendersEnvelope(t *testing.T) {
	app := newTestApplication(t)
	handler := app.routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nothing-here", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	messages := decodeErrorMessages(t, rec.Body.Bytes())
	if len(messages) != 1 || messages[0] != "the requested resource could not be found" {
		t.Fatalf("unexpected messages: %v", messages)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	app := newTestApplication(t)
	handler := app.routes()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/tags", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	app := newTestApplication(t)
	handler := app.routes()

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user"},
		{http.MethodPut, "/api/user"},
		{http.MethodDelete, "/api/user"},
		{http.MethodPost, "/api/articles"},
		{http.MethodPut, "/api/articles/some-slug"},
		{http.MethodDelete, "/api/articles/some-slug"},
		{http.MethodGet, "/api/articles/feed"},
		{http.MethodPost, "/api/articles/some-slug/comments"},
		{http.MethodDelete, "/api/articles/some-slug/comments/1"},
		{http.MethodPost, "/api/articles/some-slug/favorite"},
		{http.MethodDelete, "/api/articles/some-slug/favorite"},
		{http.MethodPost, "/api/profiles/anna/follow"},
		{http.MethodDelete, "/api/profiles/anna/follow"},
	}

	for _, route := range protected {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApplication(t)
	handler := app.routes()

	req := httptest.NewRequest(http.MethodOptions, "/api/articles", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 preflight, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard allow-origin, got %q", got)
	}
}

func TestCORSActualRequest(t *testing.T) {
	app := newTestApplication(t)
	handler := app.routes()

	req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
	req.Header.Set("Origin", "http://example.com")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// The route itself rejects the anonymous caller, but CORS headers must
	// still be present for the browser to read the error.
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard allow-origin, got %q", got)
	}
}
