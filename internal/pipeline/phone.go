package pipeline

import (
	"regexp"
	"strings"
)

// phonePattern matches digit runs that look like a 10-digit local mobile
// number, optionally prefixed by a country code or a leading zero, with
// space or hyphen separators anywhere inside.
var phonePattern = regexp.MustCompile(`\+?\d[\d \-]{8,16}\d`)

// ExtractPhones pulls plausible mobile numbers out of free text and returns
// them canonicalized (digits only) in first-seen order, deduplicated within
// the text. Pattern matching only; false positives are accepted in favor of
// recall. Never fails: no match yields an empty set.
func ExtractPhones(text string) []string {
	var out []string
	seen := make(map[string]bool)

	for _, match := range phonePattern.FindAllString(text, -1) {
		digits := stripSeparators(match)
		if !plausibleLength(len(digits)) {
			continue
		}
		if seen[digits] {
			continue
		}
		seen[digits] = true
		out = append(out, digits)
	}
	return out
}

// plausibleLength accepts a bare 10-digit number, a leading-zero form, or a
// country-code prefix of up to three digits.
func plausibleLength(n int) bool {
	return n >= 10 && n <= 13
}

func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
