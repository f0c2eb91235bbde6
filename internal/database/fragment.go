package database

import (
	"fmt"
	"strings"
)

// Fragment pairs a piece of SQL text with the arguments bound to its
// placeholders, so conditionally assembled statements cannot drift out of
// positional sync. Text uses ? markers; Build rewrites them to $1..$n.
type Fragment struct {
	text string
	args []any
}

func F(text string, args ...any) Fragment {
	return Fragment{text: text, args: args}
}

func (f Fragment) Concat(other Fragment) Fragment {
	return Fragment{
		text: f.text + other.text,
		args: append(append([]any{}, f.args...), other.args...),
	}
}

func Join(sep string, fragments []Fragment) Fragment {
	texts := make([]string, len(fragments))
	var args []any
	for i, fragment := range fragments {
		texts[i] = fragment.text
		args = append(args, fragment.args...)
	}

	return Fragment{text: strings.Join(texts, sep), args: args}
}

// Placeholders returns a fragment of n comma-separated markers, for IN
// clauses and multi-row VALUES lists.
func Placeholders[T any](values []T) Fragment {
	markers := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		markers[i] = "?"
		args[i] = v
	}

	return Fragment{text: strings.Join(markers, ", "), args: args}
}

// Build renders the fragment as a postgres statement with $n placeholders
// and the argument slice matching them one-to-one.
func (f Fragment) Build() (string, []any) {
	var sb strings.Builder
	sb.Grow(len(f.text))

	n := 0
	for _, r := range f.text {
		if r == '?' {
			n++
			sb.WriteString(fmt.Sprintf("$%d", n))
			continue
		}
		sb.WriteRune(r)
	}

	return sb.String(), f.args
}

func (f Fragment) ArgCount() int {
	return len(f.args)
}
