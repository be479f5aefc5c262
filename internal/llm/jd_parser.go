package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/types"
)

const jdParsePromptTemplate = `You are a structured information extractor for job descriptions.
Return ONLY valid JSON matching exactly this shape, with no extra keys and no prose:
{
  "role": "string",
  "domain": "string",
  "seniority": "string",
  "must_have_skills": ["string"],
  "nice_to_have_skills": ["string"],
  "responsibilities": ["string"]
}
Rules:
- role is the job title being hired for, lowercase.
- seniority is one of: junior, mid, senior, lead, or "" when unstated.
- must_have_skills lists hard requirements only; nice_to_have_skills lists preferred extras.
- responsibilities are short verbatim phrases from the posting.
- Use "" or [] when the posting gives no signal.

Job description:
%s`

// JDParser turns raw job-description text into a structured profile,
// preferring the model and degrading to rule-based parsing when the model
// is unavailable or returns garbage.
type JDParser struct {
	client Client
}

// NewJDParser creates a parser. A nil client means fallback-only mode.
func NewJDParser(client Client) *JDParser {
	return &JDParser{client: client}
}

// ParseJD extracts a JDProfile from jdText. Model failures are logged and
// absorbed: the caller always receives a usable profile.
func (p *JDParser) ParseJD(ctx context.Context, jdText string) *types.JDProfile {
	if p.client == nil {
		return parsing.FallbackParseJD(jdText)
	}

	profile, err := p.parseWithModel(ctx, jdText)
	if err != nil {
		log.Printf("jd parse: model path failed, using fallback: %v", err)
		return parsing.FallbackParseJD(jdText)
	}
	return profile
}

func (p *JDParser) parseWithModel(ctx context.Context, jdText string) (*types.JDProfile, error) {
	prompt := fmt.Sprintf(jdParsePromptTemplate, jdText)

	raw, err := p.client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, err
	}

	var profile types.JDProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("unmarshal model response: %w", err)
	}

	profile.Role = strings.TrimSpace(profile.Role)
	if profile.Role == "" {
		return nil, fmt.Errorf("model response has empty role")
	}
	profile.Domain = strings.TrimSpace(profile.Domain)
	profile.Seniority = strings.ToLower(strings.TrimSpace(profile.Seniority))
	profile.MustHaveSkills = normalizeList(profile.MustHaveSkills)
	profile.NiceToHaveSkills = normalizeList(profile.NiceToHaveSkills)
	profile.Responsibilities = normalizeList(profile.Responsibilities)
	return &profile, nil
}

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
