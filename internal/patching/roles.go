package patching

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/types"
)

// literalMatchBonus rewards a role whose text mentions the skill verbatim.
const literalMatchBonus = 3

// maxSuggestedRoles bounds the ranked role list.
const maxSuggestedRoles = 2

var tokenRe = regexp.MustCompile(`[A-Za-z0-9+#.-]+`)

var stopwords = map[string]bool{
	"and": true, "or": true, "the": true, "for": true, "with": true,
	"from": true,
}

// SuggestRolesForSkill ranks roles for attributing a skill, using
// deterministic token-set overlap between skill+context and the role's
// concatenated text. Ties break on role_id so output is stable. Returns up
// to two role IDs with positive score, falling back to the first two roles
// overall when nothing scores.
func SuggestRolesForSkill(state *types.ResumeState, skill, jdContext string) []string {
	skill = strings.TrimSpace(skill)
	if len(state.Sections.Experience) == 0 {
		return nil
	}

	tokens := tokenize(skill + " " + jdContext)

	type scoredRole struct {
		score  int
		roleID string
	}
	scored := make([]scoredRole, 0, len(state.Sections.Experience))

	for _, role := range state.Sections.Experience {
		parts := []string{role.Company, role.Title, role.Location, role.Dates, strings.Join(role.Bullets, " ")}
		roleText := strings.Join(parts, " ")

		overlap := 0
		for token := range tokenize(roleText) {
			if tokens[token] {
				overlap++
			}
		}
		if skill != "" && lexicon.HasToken(roleText, skill) {
			overlap += literalMatchBonus
		}
		scored = append(scored, scoredRole{score: overlap, roleID: role.RoleID})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].roleID < scored[j].roleID
	})

	var top []string
	for _, item := range scored {
		if item.score > 0 && len(top) < maxSuggestedRoles {
			top = append(top, item.roleID)
		}
	}
	if len(top) == 0 {
		for _, item := range scored[:min(maxSuggestedRoles, len(scored))] {
			top = append(top, item.roleID)
		}
	}
	return top
}

// ProofBulletTemplate returns a neutral proof bullet for override payloads.
// The workflow context is chosen by keyword sniffing of the JD; no
// randomness, so repeated calls are identical.
func ProofBulletTemplate(skill, jdText string) string {
	return "Used " + strings.TrimSpace(skill) + " to support " + chooseContext(jdText) + " workflows, improving consistency and reliability."
}

// RoleSelector identifies a role either directly by ID or by company+dates.
type RoleSelector struct {
	RoleID  string `json:"role_id,omitempty"`
	Company string `json:"company,omitempty"`
	Dates   string `json:"dates,omitempty"`
}

// SelectRoleIndex resolves a selector to an index into the experience list.
// role_id wins when present; otherwise company and dates must both match
// exactly one role. Several matches surface as AmbiguousRoleError carrying
// the full candidate set.
func SelectRoleIndex(state *types.ResumeState, selector RoleSelector) (int, error) {
	roleID := strings.TrimSpace(selector.RoleID)
	company := strings.TrimSpace(selector.Company)
	dates := strings.TrimSpace(selector.Dates)

	if roleID != "" {
		for idx, role := range state.Sections.Experience {
			if role.RoleID == roleID {
				return idx, nil
			}
		}
		return 0, &RoleNotFoundError{RoleID: roleID}
	}

	if company == "" || dates == "" {
		return 0, &ValidationError{Message: "provide role_id or company + dates"}
	}

	var matches []int
	for idx, role := range state.Sections.Experience {
		if strings.EqualFold(strings.TrimSpace(role.Company), company) &&
			strings.EqualFold(strings.TrimSpace(role.Dates), dates) {
			matches = append(matches, idx)
		}
	}

	switch len(matches) {
	case 0:
		return 0, &RoleNotFoundError{RoleID: company + " | " + dates}
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, idx := range matches {
			ids[i] = state.Sections.Experience[idx].RoleID
		}
		return 0, &AmbiguousRoleError{RoleIDs: ids}
	}
}

// tokenize splits text into a lowercased set of alphanumeric tokens longer
// than two characters, minus stopwords.
func tokenize(text string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range tokenRe.FindAllString(text, -1) {
		if len(token) <= 2 {
			continue
		}
		lower := strings.ToLower(token)
		if stopwords[lower] {
			continue
		}
		set[lower] = true
	}
	return set
}

// chooseContext picks the workflow phrase for a proof bullet by sniffing
// JD keywords.
func chooseContext(jdText string) string {
	text := strings.ToLower(jdText)
	switch {
	case containsAnyWord(text, "dashboard", "report", "tableau", "visualization"):
		return "reporting and analytics"
	case containsAnyWord(text, "pipeline", "ingest", "ingestion", "etl", "elt"):
		return "data ingestion and transformation"
	case containsAnyWord(text, "model", "schema", "dbt", "dimensional"):
		return "data modeling"
	default:
		return "data processing"
	}
}

func containsAnyWord(text string, words ...string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
