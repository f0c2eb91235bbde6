package validator

import "testing"

func TestCheckCollectsErrors(t *testing.T) {
	v := New()
	if !v.IsValid() {
		t.Fatalf("new validator should be valid")
	}

	v.Check(false, "title", "must be provided")
	v.Check(true, "body", "must be provided")

	if v.IsValid() {
		t.Fatalf("expected validator to be invalid")
	}
	if got := v.Errors["title"]; got != "must be provided" {
		t.Fatalf("expected title error, got %q", got)
	}
	if _, ok := v.Errors["body"]; ok {
		t.Fatalf("passing check must not record an error")
	}
}

func TestFirstErrorWins(t *testing.T) {
	v := New()
	v.AddError("email", "must be provided")
	v.AddError("email", "must be a valid email address")

	if got := v.Errors["email"]; got != "must be provided" {
		t.Fatalf("expected the first error to be kept, got %q", got)
	}
}

func TestCheckNotBlank(t *testing.T) {
	v := New()
	v.CheckNotBlank("   ", "username", "must be provided")
	if v.IsValid() {
		t.Fatalf("whitespace-only value should fail")
	}

	v = New()
	v.CheckNotBlank("jake", "username", "must be provided")
	if !v.IsValid() {
		t.Fatalf("non-blank value should pass")
	}
}

func TestCheckEmail(t *testing.T) {
	valid := []string{"jake@jake.jake", "a.b+c@example.co.uk"}
	invalid := []string{"", "jake", "jake@", "@jake.jake", "jake @jake.jake"}

	for _, email := range valid {
		v := New()
		v.CheckEmail(email, "must be a valid email address")
		if !v.IsValid() {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	for _, email := range invalid {
		v := New()
		v.CheckEmail(email, "must be a valid email address")
		if v.IsValid() {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestIsUnique(t *testing.T) {
	v := New()
	if !v.IsUnique([]string{"go", "postgres", "http"}) {
		t.Fatalf("distinct values should be unique")
	}
	if v.IsUnique([]string{"go", "postgres", "go"}) {
		t.Fatalf("repeated values should not be unique")
	}
	if !v.IsUnique(nil) {
		t.Fatalf("empty slice should be unique")
	}
}
