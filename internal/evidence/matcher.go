// Package evidence locates skill mentions inside structured resume state.
package evidence

import (
	"strings"

	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/types"
)

// Matcher searches a resume for token-boundary skill evidence.
type Matcher struct {
	lex *lexicon.Lexicon
}

// New creates a matcher over the given lexicon.
func New(lex *lexicon.Lexicon) *Matcher {
	return &Matcher{lex: lex}
}

// Find collects evidence for a skill in a fixed order: professional-summary
// lines, technical-skills lines, then every experience bullet (role order,
// then bullet order). The order is part of the contract: it makes output
// deterministic and puts the highest-visibility sections first.
//
// A direct match is the canonical token at a word boundary. When directOnly
// is false, registered synonyms are also tried.
func (m *Matcher) Find(skill string, state *types.ResumeState, directOnly bool) []types.SkillEvidence {
	canonical := strings.ToLower(skill)
	variants := m.lex.SynonymsFor(canonical)

	match := func(text string) bool {
		if lexicon.HasToken(text, canonical) {
			return true
		}
		if directOnly {
			return false
		}
		for _, v := range variants {
			if lexicon.HasToken(text, v) {
				return true
			}
		}
		return false
	}

	var found []types.SkillEvidence

	for _, line := range summaryLines(state) {
		if match(line) {
			found = append(found, types.SkillEvidence{Section: types.SectionSummary, Snippet: line})
		}
	}

	for _, line := range state.Sections.TechnicalSkills {
		if match(line) {
			found = append(found, types.SkillEvidence{Section: types.SectionTechnicalSkills, Snippet: line})
		}
	}

	for _, role := range state.Sections.Experience {
		for idx, bullet := range role.Bullets {
			if match(bullet) {
				i := idx
				found = append(found, types.SkillEvidence{
					Section:     types.SectionExperience,
					RoleID:      role.RoleID,
					BulletIndex: &i,
					Snippet:     bullet,
				})
			}
		}
	}

	return found
}

// HasDirect reports whether the resume contains direct (exact-token)
// evidence for the skill anywhere: skills list, summary, or any bullet.
func (m *Matcher) HasDirect(state *types.ResumeState, skill string) bool {
	token := strings.ToLower(strings.TrimSpace(skill))
	if token == "" {
		return false
	}
	for _, line := range state.Sections.TechnicalSkills {
		if lexicon.HasToken(line, token) {
			return true
		}
	}
	for _, line := range summaryLines(state) {
		if lexicon.HasToken(line, token) {
			return true
		}
	}
	for _, role := range state.Sections.Experience {
		for _, bullet := range role.Bullets {
			if lexicon.HasToken(bullet, token) {
				return true
			}
		}
	}
	return false
}

// summaryLines splits the professional summary into non-blank lines.
func summaryLines(state *types.ResumeState) []string {
	var lines []string
	for _, line := range strings.Split(state.Sections.ProfessionalSummary, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
