package cache

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize maps a key to its canonical stored form: surrounding
// whitespace is trimmed and the result is Unicode case-folded. Every
// read, write and invalidation path goes through Normalize, so
// logically equal keys always collide in storage.
func Normalize(key string) string {
	return cases.Fold().String(strings.TrimSpace(key))
}
