package parsing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/resume-ats/internal/types"
)

// Section header synonyms recognized in plain-text resumes.
var (
	summaryHeaders    = []string{"PROFESSIONAL SUMMARY", "SUMMARY", "PROFILE"}
	skillsHeaders     = []string{"TECHNICAL SKILLS", "SKILLS", "CORE COMPETENCIES"}
	experienceHeaders = []string{"PROFESSIONAL EXPERIENCE", "WORK EXPERIENCE", "EXPERIENCE"}
	educationHeaders  = []string{"EDUCATION"}
)

var titleParenRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ParseResumeText converts a plain-text resume into a structured state.
// Sections are split on uppercase header lines; within experience, role
// headers are detected via month-year date ranges and bullets via leading
// markers. Role IDs are assigned deterministically in document order.
func ParseResumeText(text string) *types.ResumeState {
	normalized := NormalizeText(text)
	lines := nonBlankLines(normalized)

	state := &types.ResumeState{
		Sections: types.Sections{
			TechnicalSkills: []string{},
			Experience:      []types.Role{},
			Education:       []string{},
		},
	}

	type sectionKind int
	const (
		sectionNone sectionKind = iota
		sectionSummary
		sectionSkills
		sectionExperience
		sectionEducation
	)

	current := sectionNone
	var summary []string
	var experienceLines []string

	for _, line := range lines {
		switch {
		case matchesHeader(line, summaryHeaders):
			current = sectionSummary
			continue
		case matchesHeader(line, skillsHeaders):
			current = sectionSkills
			continue
		case matchesHeader(line, experienceHeaders):
			current = sectionExperience
			continue
		case matchesHeader(line, educationHeaders):
			current = sectionEducation
			continue
		}

		switch current {
		case sectionSummary:
			summary = append(summary, line)
		case sectionSkills:
			state.Sections.TechnicalSkills = append(state.Sections.TechnicalSkills, StripBulletMarker(line))
		case sectionExperience:
			experienceLines = append(experienceLines, line)
		case sectionEducation:
			state.Sections.Education = append(state.Sections.Education, StripBulletMarker(line))
		case sectionNone:
			// Preamble before any header is treated as summary content.
			summary = append(summary, line)
		}
	}

	state.Sections.ProfessionalSummary = strings.Join(summary, "\n")
	state.Sections.Experience = parseRoles(experienceLines)
	return state
}

// parseRoles splits experience-section lines into roles. A line carrying a
// date range opens a new role; bullet lines attach to the current role;
// a bare non-bullet line immediately after a dateless pre-header becomes
// the role title.
func parseRoles(lines []string) []types.Role {
	roles := []types.Role{}
	var current *types.Role
	var pendingHeader string

	flush := func() {
		if current != nil {
			roles = append(roles, *current)
			current = nil
		}
	}

	for _, line := range lines {
		if IsBulletLine(line) {
			if current != nil {
				current.Bullets = append(current.Bullets, StripBulletMarker(line))
			}
			continue
		}

		start, end, loc, ok := FindDateRange(line)
		if !ok {
			if current != nil && current.Title == "" && len(current.Bullets) == 0 {
				current.Title = line
			} else {
				pendingHeader = line
			}
			continue
		}

		flush()
		pre := strings.Trim(line[:loc[0]], " -|,")
		post := strings.Trim(line[loc[1]:], " -|,")

		company, title := "", ""
		switch {
		case pre != "" && post != "":
			company, title = pre, post
		case pre != "":
			company, title = splitCompanyTitle(pre)
		case post != "" && pendingHeader != "":
			company, title = splitCompanyTitle(pendingHeader)
			if title == "" {
				title = post
			}
		case pendingHeader != "":
			company, title = splitCompanyTitle(pendingHeader)
		}
		pendingHeader = ""

		current = &types.Role{
			RoleID:  fmt.Sprintf("role-%d", len(roles)+1),
			Company: company,
			Title:   stripTitleParenthetical(title),
			Dates:   start + " - " + end,
			Bullets: []string{},
		}
	}
	flush()
	return roles
}

// splitCompanyTitle separates "Company | Title" style headers on the first
// recognized separator.
func splitCompanyTitle(text string) (company, title string) {
	for _, sep := range []string{" | ", " - ", ","} {
		if strings.Contains(text, sep) {
			parts := splitNonEmpty(text, sep)
			if len(parts) == 0 {
				return text, ""
			}
			company = parts[0]
			if len(parts) > 1 {
				title = parts[1]
			}
			return company, title
		}
	}
	return text, ""
}

func stripTitleParenthetical(title string) string {
	return strings.TrimSpace(titleParenRe.ReplaceAllString(title, ""))
}

func splitNonEmpty(text, sep string) []string {
	var out []string
	for _, part := range strings.Split(text, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func matchesHeader(line string, headers []string) bool {
	upper := strings.ToUpper(strings.TrimSpace(line))
	for _, header := range headers {
		if upper == header {
			return true
		}
	}
	return false
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
