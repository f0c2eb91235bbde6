package core

import (
	"regexp"
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"How to train your dragon", "how-to-train-your-dragon"},
		{"Hello, World!", "hello-world"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"already-slugged", "already-slugged"},
		{"UPPER CASE 123", "upper-case-123"},
		{"!!!", ""},
		{"", ""},
		{"trailing punctuation...", "trailing-punctuation"},
	}

	for _, tt := range tests {
		if got := Slugify(tt.title); got != tt.want {
			t.Fatalf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestMakeSlugShape(t *testing.T) {
	suffix := regexp.MustCompile(`-\d{8}$`)

	slug := MakeSlug("How to train your dragon")
	if !strings.HasPrefix(slug, "how-to-train-your-dragon-") {
		t.Fatalf("unexpected prefix: %q", slug)
	}
	if !suffix.MatchString(slug) {
		t.Fatalf("expected an 8-digit suffix: %q", slug)
	}
}

func TestMakeSlugVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		seen[MakeSlug("same title")] = true
	}
	if len(seen) < 2 {
		t.Fatalf("expected the random suffix to vary, got %d distinct slugs", len(seen))
	}
}
