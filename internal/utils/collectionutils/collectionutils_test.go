package collectionutils

import (
	"reflect"
	"testing"
)

func TestAssociate(t *testing.T) {
	type user struct {
		id   int64
		name string
	}

	users := []user{{1, "anna"}, {2, "ben"}}
	byID := Associate(users, func(u user) (int64, string) {
		return u.id, u.name
	})

	want := map[int64]string{1: "anna", 2: "ben"}
	if !reflect.DeepEqual(byID, want) {
		t.Fatalf("expected %v, got %v", want, byID)
	}
}

func TestGroupBy(t *testing.T) {
	words := []string{"ant", "bee", "ape", "bat"}
	groups := GroupBy(words, func(w string) byte { return w[0] })

	if !reflect.DeepEqual(groups['a'], []string{"ant", "ape"}) {
		t.Fatalf("unexpected group for 'a': %v", groups['a'])
	}
	if !reflect.DeepEqual(groups['b'], []string{"bee", "bat"}) {
		t.Fatalf("unexpected group for 'b': %v", groups['b'])
	}
}

func TestGetOrDefault(t *testing.T) {
	m := map[string]int{"a": 1}

	if got := GetOrDefault(m, "a", 99); got != 1 {
		t.Fatalf("expected existing value, got %d", got)
	}
	if got := GetOrDefault(m, "b", 99); got != 99 {
		t.Fatalf("expected default value, got %d", got)
	}
}
