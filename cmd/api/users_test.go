package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goconduit/conduit/internal/auth"
)

func TestRegisterMalformedBody(t *testing.T) {
	app := newTestApplication(t)
	handler := app.routes()

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"user":`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	messages := decodeErrorMessages(t, rec.Body.Bytes())
	if len(messages) != 1 || !strings.Contains(messages[0], "badly-formed JSON") {
		t.Fatalf("unexpected messages: %v", messages)
	}
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApplication(t)
	handler := app.routes()

	body := `{"user": {"username": "", "email": "not-an-email", "password": "short"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	messages := decodeErrorMessages(t, rec.Body.Bytes())
	want := []string{
		"email must be a valid email address",
		"password must be at least 8 characters long",
		"username must be provided",
	}
	if len(messages) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), messages)
	}
	for i := range want {
		if messages[i] != want[i] {
			t.Fatalf("message %d: expected %q, got %q", i, want[i], messages[i])
		}
	}
}

func TestUpdateUserRejectsBlankPassword(t *testing.T) {
	app := newTestApplication(t)

	// Eight spaces satisfy the length rules; blankness must still fail.
	body := `{"user": {"password": "        "}}`
	req := httptest.NewRequest(http.MethodPut, "/api/user", strings.NewReader(body))
	req = app.auth.SetAuthenticatedUser(req, &auth.User{ID: 1, Username: "anna", Email: "a@b.c"})

	rec := httptest.NewRecorder()
	app.updateCurrentUser(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	messages := decodeErrorMessages(t, rec.Body.Bytes())
	if len(messages) != 1 || messages[0] != "password must be provided" {
		t.Fatalf("unexpected messages: %v", messages)
	}
}
