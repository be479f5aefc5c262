// Package extraction pulls required/preferred skill lists out of free-text
// job descriptions using deterministic, lexicon-driven heuristics.
package extraction

import (
	"strings"

	"github.com/jonathan/resume-ats/internal/lexicon"
)

// section is the state of the line scanner. Header keywords switch the
// state; lines without headers inherit the current one.
type section int

const (
	sectionRequired section = iota
	sectionPreferred
)

// Skills holds the ordered, deduplicated extraction result.
type Skills struct {
	Required  []string `json:"required"`
	Preferred []string `json:"preferred"`
}

// Extractor scans job-description text against a lexicon.
type Extractor struct {
	lex *lexicon.Lexicon
}

// New creates an extractor over the given lexicon.
func New(lex *lexicon.Lexicon) *Extractor {
	return &Extractor{lex: lex}
}

// ExtractSkills scans jdText line by line, tracking the current section via
// header keywords, and returns deduplicated required/preferred skill lists.
// Preferred skills already present in required are dropped. If both lists
// end empty the whole text is rescanned once as required. A positive cap
// truncates the output, filling required first.
func (e *Extractor) ExtractSkills(jdText string, cap int) Skills {
	var required, preferred []string
	current := sectionRequired

	for _, raw := range strings.Split(jdText, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		current = e.transition(current, strings.ToLower(line))

		found := e.FindSkillsInText(line)
		if current == sectionPreferred {
			preferred = append(preferred, found...)
		} else {
			required = append(required, found...)
		}
	}

	required = lexicon.DedupePreserve(required)
	preferred = subtract(lexicon.DedupePreserve(preferred), required)

	if len(required) == 0 && len(preferred) == 0 {
		required = lexicon.DedupePreserve(e.FindSkillsInText(jdText))
	}

	if cap > 0 {
		required, preferred = truncate(required, preferred, cap)
	}

	return Skills{Required: required, Preferred: preferred}
}

// transition applies the section state machine for a single lowercased line.
// Responsibilities count as required: they describe what the role demands.
func (e *Extractor) transition(current section, lower string) section {
	switch {
	case containsAny(lower, e.lex.RequiredHeaders):
		return sectionRequired
	case containsAny(lower, e.lex.PreferredHeaders):
		return sectionPreferred
	case containsAny(lower, e.lex.ResponsibilityHeaders):
		return sectionRequired
	}
	return current
}

// FindSkillsInText returns every dictionary skill evidenced in the text,
// via the canonical token, a registered synonym, or the capitalized-token
// sweep. Output is deduplicated case-insensitively, first-seen order.
func (e *Extractor) FindSkillsInText(text string) []string {
	var found []string
	for _, skill := range e.lex.Dictionary {
		if lexicon.HasToken(text, skill) {
			found = append(found, skill)
			continue
		}
		for _, variant := range e.lex.SynonymsFor(skill) {
			if lexicon.HasToken(text, variant) {
				found = append(found, skill)
				break
			}
		}
	}

	// Capitalized tokens catch dictionary skills written in nonstandard
	// casing that slipped past the boundary matcher.
	for _, token := range lexicon.CapitalizedTokens(text) {
		for _, skill := range e.lex.Dictionary {
			if strings.EqualFold(token, skill) {
				found = append(found, token)
				break
			}
		}
	}

	return lexicon.DedupePreserve(found)
}

// truncate bounds the combined output at limit, filling required first and
// giving preferred only the remaining slots.
func truncate(required, preferred []string, limit int) ([]string, []string) {
	if len(required) >= limit {
		return required[:limit], nil
	}
	remaining := limit - len(required)
	if len(preferred) > remaining {
		preferred = preferred[:remaining]
	}
	return required, preferred
}

func subtract(values, remove []string) []string {
	removeSet := make(map[string]bool, len(remove))
	for _, v := range remove {
		removeSet[strings.ToLower(v)] = true
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !removeSet[strings.ToLower(v)] {
			out = append(out, v)
		}
	}
	return out
}

func containsAny(text string, keys []string) bool {
	for _, key := range keys {
		if strings.Contains(text, key) {
			return true
		}
	}
	return false
}
