package core

import (
	"math/rand"
	"strings"
	"unicode"
)

// Slugify lowercases the title and collapses everything that is not a letter
// or digit into single hyphens.
func Slugify(title string) string {
	var sb strings.Builder
	sb.Grow(len(title))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			sb.WriteRune('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// MakeSlug appends an 8-digit random suffix to the slugified title. The
// suffix does not guarantee uniqueness; CreateArticle retries on a slug
// conflict.
func MakeSlug(title string) string {
	var sb strings.Builder
	sb.WriteString(Slugify(title))
	sb.WriteByte('-')
	for i := 0; i < 8; i++ {
		sb.WriteByte(byte('0' + rand.Intn(10)))
	}

	return sb.String()
}
