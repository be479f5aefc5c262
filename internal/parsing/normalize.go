// Package parsing converts plain-text resumes and job descriptions into
// the structured forms the engine operates on.
package parsing

import (
	"regexp"
	"strings"
)

var (
	spaceRunRe  = regexp.MustCompile(`[ \t]+`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
	bulletRe    = regexp.MustCompile(`^(?:[-*•]|\d+\.)\s+`)
	dateRangeRe = regexp.MustCompile(`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec|January|February|March|April|June|July|August|September|October|November|December)\s+\d{4})\s*(?:-|–|to)\s*(Present|Current|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec|January|February|March|April|June|July|August|September|October|November|December)\s+\d{4})`)
)

// NormalizeText canonicalizes line endings, collapses tab/space runs, and
// squeezes 3+ consecutive newlines down to a single blank line.
func NormalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// IsBulletLine reports whether a line starts with a bullet marker.
func IsBulletLine(line string) bool {
	return bulletRe.MatchString(line)
}

// StripBulletMarker removes a leading bullet marker from a line.
func StripBulletMarker(line string) string {
	return strings.TrimSpace(bulletRe.ReplaceAllString(line, ""))
}

// FindDateRange returns the start and end of a month-year range like
// "May 2021 - Jun 2023" or "May 2021 - Present", plus the match bounds.
// ok is false when the line carries no range.
func FindDateRange(line string) (start, end string, loc []int, ok bool) {
	m := dateRangeRe.FindStringSubmatchIndex(line)
	if m == nil {
		return "", "", nil, false
	}
	return line[m[2]:m[3]], line[m[4]:m[5]], m[0:2], true
}
