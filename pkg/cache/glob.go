package cache

import (
	"regexp"
	"strings"
)

// Pattern is a compiled invalidation pattern.
//
// Only '*' is special: it matches any run of characters, including ':'
// and the empty string. Every other character matches literally. A
// pattern without '*' matches exactly one normalized key.
type Pattern struct {
	re    *regexp.Regexp // nil for exact patterns
	exact string
	raw   string
}

// CompilePattern normalizes and compiles an invalidation pattern.
func CompilePattern(pattern string) Pattern {
	norm := Normalize(pattern)
	if !strings.Contains(norm, "*") {
		return Pattern{exact: norm, raw: norm}
	}

	parts := strings.Split(norm, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	// QuoteMeta guarantees the joined expression is valid.
	re := regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")

	return Pattern{re: re, raw: norm}
}

// Match reports whether a normalized key satisfies the pattern.
func (p Pattern) Match(key string) bool {
	if p.re == nil {
		return key == p.exact
	}
	return p.re.MatchString(key)
}

// String returns the normalized pattern text.
func (p Pattern) String() string {
	return p.raw
}
