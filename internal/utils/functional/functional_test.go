package functional

import (
	"reflect"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(n int) int { return n * n })
	if !reflect.DeepEqual(got, []int{1, 4, 9}) {
		t.Fatalf("unexpected result: %v", got)
	}

	empty := Map([]int{}, func(n int) int { return n })
	if empty == nil || len(empty) != 0 {
		t.Fatalf("mapping an empty slice must return an empty, non-nil slice")
	}
}
