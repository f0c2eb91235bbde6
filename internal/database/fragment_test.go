package database

import (
	"reflect"
	"testing"
)

func TestBuildRenumbersPlaceholders(t *testing.T) {
	fragment := F("SELECT * FROM users WHERE id = ? AND deleted = ?", int64(7), false)

	query, args := fragment.Build()
	want := "SELECT * FROM users WHERE id = $1 AND deleted = $2"
	if query != want {
		t.Fatalf("expected %q, got %q", want, query)
	}
	if !reflect.DeepEqual(args, []any{int64(7), false}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestConcatKeepsTextAndArgsPaired(t *testing.T) {
	fragment := F("UPDATE users SET email = ?", "a@b.c").
		Concat(F(", bio = ?", "hello")).
		Concat(F(" WHERE id = ?", int64(3)))

	query, args := fragment.Build()
	want := "UPDATE users SET email = $1, bio = $2 WHERE id = $3"
	if query != want {
		t.Fatalf("expected %q, got %q", want, query)
	}
	if len(args) != 3 || args[0] != "a@b.c" || args[1] != "hello" || args[2] != int64(3) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestConcatDoesNotAliasReceiverArgs(t *testing.T) {
	base := F("?", 1)
	first := base.Concat(F("?", 2))
	second := base.Concat(F("?", 3))

	_, firstArgs := first.Build()
	_, secondArgs := second.Build()

	if !reflect.DeepEqual(firstArgs, []any{1, 2}) {
		t.Fatalf("first concat args corrupted: %v", firstArgs)
	}
	if !reflect.DeepEqual(secondArgs, []any{1, 3}) {
		t.Fatalf("second concat args corrupted: %v", secondArgs)
	}
}

func TestJoin(t *testing.T) {
	fragment := Join(", ", []Fragment{
		F("title = ?", "a"),
		F("body = ?", "b"),
		F("updated_at = now()"),
	})

	query, args := fragment.Build()
	want := "title = $1, body = $2, updated_at = now()"
	if query != want {
		t.Fatalf("expected %q, got %q", want, query)
	}
	if len(args) != 2 {
		t.Fatalf("expected 2 args, got %v", args)
	}
}

func TestPlaceholders(t *testing.T) {
	fragment := F("SELECT id FROM users WHERE id IN (").
		Concat(Placeholders([]int64{10, 20, 30})).
		Concat(F(")"))

	query, args := fragment.Build()
	want := "SELECT id FROM users WHERE id IN ($1, $2, $3)"
	if query != want {
		t.Fatalf("expected %q, got %q", want, query)
	}
	if !reflect.DeepEqual(args, []any{int64(10), int64(20), int64(30)}) {
		t.Fatalf("unexpected args: %v", args)
	}

	empty, emptyArgs := Placeholders([]int64{}).Build()
	if empty != "" || len(emptyArgs) != 0 {
		t.Fatalf("empty placeholder list should produce nothing, got %q %v", empty, emptyArgs)
	}
}

func TestArgCount(t *testing.T) {
	fragment := F("a = ? AND b = ?", 1, 2)
	if fragment.ArgCount() != 2 {
		t.Fatalf("expected 2, got %d", fragment.ArgCount())
	}
}
