package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = AddValueToContext(req, "user_id", int64(7))

	got, ok := GetValueFromContext[int64](req, "user_id")
	if !ok {
		t.Fatalf("expected value to be present")
	}
	if got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}

func TestMissingValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if _, ok := GetValueFromContext[int64](req, "user_id"); ok {
		t.Fatalf("expected no value")
	}
}

func TestWrongTypeValue(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = AddValueToContext(req, "user_id", "not an int")

	if _, ok := GetValueFromContext[int64](req, "user_id"); ok {
		t.Fatalf("expected a type mismatch to report absence")
	}
}
