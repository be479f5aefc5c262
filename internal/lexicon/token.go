package lexicon

import (
	"regexp"
	"strings"
)

// capsTokenRe matches capitalized tech-style tokens ("Python", "CI/CD"
// fragments, "C#") used by the capitalized-token sweep in extraction.
var capsTokenRe = regexp.MustCompile(`\b[A-Z][A-Za-z0-9+.#-]{2,}\b`)

// HasToken reports whether token occurs in text as a whole token:
// case-insensitive, and not adjacent to a word character on either side.
// "SQL" matches "Uses SQL daily" but not "MySQL" or "SQLite".
func HasToken(text, token string) bool {
	if token == "" {
		return false
	}
	// Go's RE2 has no lookaround, so the boundary is expressed with
	// explicit non-word classes anchored at the string edges.
	pattern := `(?i)(?:^|[^0-9A-Za-z_])` + regexp.QuoteMeta(token) + `(?:[^0-9A-Za-z_]|$)`
	matched, err := regexp.MatchString(pattern, text)
	if err != nil {
		return false
	}
	return matched
}

// CapitalizedTokens returns the capitalized candidate tokens found in text.
func CapitalizedTokens(text string) []string {
	return capsTokenRe.FindAllString(text, -1)
}

// DedupePreserve removes case-insensitive duplicates while keeping
// first-seen order and original casing.
func DedupePreserve(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

func lowerTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
