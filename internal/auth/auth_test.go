package auth

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	a := New("test-secret", "conduit", time.Hour)

	token, err := a.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}

	userID, err := a.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user id 42, got %d", userID)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := New("test-secret", "conduit", -time.Minute)

	token, err := a.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := a.VerifyToken(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := New("one-secret", "conduit", time.Hour)
	verifier := New("another-secret", "conduit", time.Hour)

	token, err := issuer.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Fatalf("expected token signed with a different secret to be rejected")
	}
}

func TestWrongIssuerRejected(t *testing.T) {
	issuer := New("test-secret", "somewhere-else", time.Hour)
	verifier := New("test-secret", "conduit", time.Hour)

	token, err := issuer.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := verifier.VerifyToken(token); err == nil {
		t.Fatalf("expected token from a different issuer to be rejected")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	a := New("test-secret", "conduit", time.Hour)

	token, err := a.IssueToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := a.VerifyToken(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestUserSerialization(t *testing.T) {
	user := &User{ID: 7, Email: "a@b.c", Username: "anna", Password: []byte("hash")}

	js, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(js, &fields); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := fields["token"]; ok {
		t.Fatalf("an empty token must not serialize: %s", js)
	}
	if _, ok := fields["password"]; ok {
		t.Fatalf("the password hash must never serialize: %s", js)
	}
	for _, key := range []string{"email", "username", "bio", "image"} {
		if _, ok := fields[key]; !ok {
			t.Fatalf("expected key %q in %s", key, js)
		}
	}

	user.Token = "abc.def.ghi"
	js, err = json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal with token: %v", err)
	}
	fields = nil
	if err := json.Unmarshal(js, &fields); err != nil {
		t.Fatalf("unmarshal with token: %v", err)
	}
	if fields["token"] != "abc.def.ghi" {
		t.Fatalf("expected the token to serialize when set: %s", js)
	}
}

func TestPasswordMatch(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("correct horse battery staple"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if len(user.Password) == 0 {
		t.Fatalf("expected a stored hash")
	}

	match, err := user.IsPasswordMatch("correct horse battery staple")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !match {
		t.Fatalf("expected the right password to match")
	}

	match, err = user.IsPasswordMatch("wrong password")
	if err != nil {
		t.Fatalf("mismatch should not be an error, got %v", err)
	}
	if match {
		t.Fatalf("expected the wrong password not to match")
	}
}
