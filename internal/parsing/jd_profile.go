package parsing

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/resume-ats/internal/types"
)

// fallbackKeywordLimit bounds the frequency-based keyword sweep used when
// a JD lists no explicit requirements.
const fallbackKeywordLimit = 12

var (
	roleRe    = regexp.MustCompile(`(?i)\b([a-zA-Z ]{2,40})(engineer|developer|architect|analyst|manager|scientist)\b`)
	keywordRe = regexp.MustCompile(`[A-Za-z0-9+#.]+`)
	listSepRe = regexp.MustCompile(`[,/;]`)
)

var jdStopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true,
	"have": true, "in": true, "is": true, "it": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "with": true,
}

var knownDomains = []string{
	"fintech", "healthcare", "e-commerce", "banking", "education", "retail",
	"saas", "security", "cloud",
}

// FallbackParseJD builds a JDProfile from raw text with rule-based
// heuristics. It backs the LLM parser: the engine must produce a usable
// profile even when no model is configured or the model call fails.
func FallbackParseJD(jdText string) *types.JDProfile {
	lower := strings.ToLower(jdText)

	seniority := ""
	switch {
	case strings.Contains(lower, "lead"):
		seniority = "lead"
	case strings.Contains(lower, "senior"):
		seniority = "senior"
	case strings.Contains(lower, "mid"):
		seniority = "mid"
	case strings.Contains(lower, "junior"):
		seniority = "junior"
	}

	role := "unknown"
	if m := roleRe.FindString(jdText); m != "" {
		role = strings.TrimSpace(m)
	}

	domain := ""
	for _, candidate := range knownDomains {
		if strings.Contains(lower, candidate) {
			domain = candidate
			break
		}
	}

	var mustHave, niceToHave, responsibilities []string
	for _, line := range strings.Split(jdText, "\n") {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		lowerLine := strings.ToLower(clean)
		switch {
		case strings.Contains(lowerLine, "must") || strings.Contains(lowerLine, "required"):
			mustHave = append(mustHave, listSepRe.Split(clean, -1)...)
		case strings.Contains(lowerLine, "nice to have") || strings.Contains(lowerLine, "preferred"):
			niceToHave = append(niceToHave, listSepRe.Split(clean, -1)...)
		case strings.Contains(lowerLine, "responsibil") || strings.HasPrefix(lowerLine, "you will"):
			responsibilities = append(responsibilities, clean)
		}
	}

	if len(mustHave) == 0 {
		mustHave = topKeywords(jdText, fallbackKeywordLimit)
	}
	if len(responsibilities) == 0 {
		for _, line := range strings.Split(jdText, "\n") {
			clean := strings.TrimSpace(line)
			if strings.HasPrefix(clean, "-") || strings.HasPrefix(clean, "*") {
				responsibilities = append(responsibilities, clean)
			}
			if len(responsibilities) >= 8 {
				break
			}
		}
	}

	return &types.JDProfile{
		Role:             role,
		Domain:           domain,
		Seniority:        seniority,
		MustHaveSkills:   normalizeList(mustHave),
		NiceToHaveSkills: normalizeList(niceToHave),
		Responsibilities: normalizeList(responsibilities),
	}
}

// topKeywords extracts keyword-like tokens by frequency, minus stopwords.
// Ties break alphabetically so output is deterministic.
func topKeywords(text string, limit int) []string {
	counts := make(map[string]int)
	for _, token := range keywordRe.FindAllString(text, -1) {
		if len(token) < 3 {
			continue
		}
		lower := strings.ToLower(token)
		if jdStopwords[lower] {
			continue
		}
		counts[lower]++
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// normalizeList strips, de-dupes case-insensitively, and drops empties
// while preserving first-seen order.
func normalizeList(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := []string{}
	for _, value := range values {
		item := strings.TrimSpace(value)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
