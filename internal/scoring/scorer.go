// Package scoring classifies skill coverage and aggregates the composite
// ATS score with a hard cap for unproven domain must-haves.
package scoring

import (
	"math"

	"github.com/jonathan/resume-ats/internal/evidence"
	"github.com/jonathan/resume-ats/internal/extraction"
	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/types"
)

// Blend weights for the composite score.
const (
	keywordWeight = 0.6
	roleWeight    = 0.4

	// Required/preferred split inside the keyword score.
	requiredShare  = 70.0
	preferredShare = 30.0

	// partialCredit is granted only when strict mode is off.
	partialCredit = 0.5

	// mustHaveCap is the ceiling applied when a domain must-have from the
	// JD has no direct resume evidence.
	mustHaveCap = 40

	// DefaultTopNSkills bounds extraction when the caller passes no cap.
	DefaultTopNSkills = 25
)

const cappedReasonMustHave = "Missing domain must-have evidence"

// Scorer computes coverage and ATS scores for a resume against JD text.
type Scorer struct {
	lex       *lexicon.Lexicon
	extractor *extraction.Extractor
	matcher   *evidence.Matcher
}

// New creates a scorer over the given lexicon.
func New(lex *lexicon.Lexicon) *Scorer {
	return &Scorer{
		lex:       lex,
		extractor: extraction.New(lex),
		matcher:   evidence.New(lex),
	}
}

// Coverage classifies each skill as direct, partial, or missing against the
// resume. Partial (synonym-only) matches are attempted only when strictMode
// is off. Direct coverage always carries at least one evidence record;
// missing coverage carries none.
func (s *Scorer) Coverage(skills []string, state *types.ResumeState, strictMode bool) []types.SkillCoverage {
	coverage := make([]types.SkillCoverage, 0, len(skills))

	for _, skill := range skills {
		direct := s.matcher.Find(skill, state, true)
		if len(direct) > 0 {
			coverage = append(coverage, types.SkillCoverage{
				Skill:            skill,
				Status:           types.StatusDirect,
				Evidence:         direct,
				DirectFromResume: true,
			})
			continue
		}

		if !strictMode {
			partial := s.matcher.Find(skill, state, false)
			if len(partial) > 0 {
				coverage = append(coverage, types.SkillCoverage{
					Skill:            skill,
					Status:           types.StatusPartial,
					Evidence:         partial,
					DirectFromResume: false,
				})
				continue
			}
		}

		coverage = append(coverage, types.SkillCoverage{
			Skill:    skill,
			Status:   types.StatusMissing,
			Evidence: []types.SkillEvidence{},
		})
	}

	return coverage
}

// ScoreResumeAgainstJD extracts skills from the JD, scores coverage, and
// blends keyword and role-fit scores into the final ATS score. The
// must-have gate then scans the JD (not the resume) for domain tokens; any
// gated token without direct resume evidence caps the final score.
func (s *Scorer) ScoreResumeAgainstJD(jdText string, state *types.ResumeState, topNSkills int, strictMode bool) *types.AtsScoreResponse {
	skills := s.extractor.ExtractSkills(jdText, topNSkills)
	required := skills.Required
	preferred := skills.Preferred

	reqCoverage := s.Coverage(required, state, strictMode)
	prefCoverage := s.Coverage(preferred, state, strictMode)

	reqCovered := countCovered(reqCoverage, strictMode)
	prefCovered := countCovered(prefCoverage, strictMode)

	reqTotal := len(required)
	prefTotal := len(preferred)

	keywordScore := 0
	if reqTotal > 0 || prefTotal > 0 {
		reqRatio := 0.0
		if reqTotal > 0 {
			reqRatio = reqCovered / float64(reqTotal)
		}
		prefRatio := 0.0
		if prefTotal > 0 {
			prefRatio = prefCovered / float64(prefTotal)
		}
		if prefTotal == 0 {
			keywordScore = roundToInt(reqRatio * 100)
		} else {
			keywordScore = roundToInt(reqRatio*requiredShare + prefRatio*preferredShare)
		}
	}
	keywordScore = clamp(keywordScore)

	// Role-fit / credibility counts direct evidence on required skills
	// only; partial credit in the keyword score does not carry over.
	directReq := 0
	for _, item := range reqCoverage {
		if item.Status == types.StatusDirect {
			directReq++
		}
	}
	roleScore := keywordScore
	if reqTotal > 0 {
		roleScore = roundToInt(float64(directReq) / float64(reqTotal) * 100)
	}
	roleScore = clamp(roleScore)

	finalScore := roundToInt(float64(keywordScore)*keywordWeight + float64(roleScore)*roleWeight)

	var cappedReason string
	var missingMustHave []string
	for _, token := range s.mustHaveGates(jdText) {
		if !s.matcher.HasDirect(state, token) {
			missingMustHave = append(missingMustHave, token)
		}
	}
	if len(missingMustHave) > 0 {
		cappedReason = cappedReasonMustHave
		if finalScore > mustHaveCap {
			finalScore = mustHaveCap
		}
		missingMustHave = lexicon.DedupePreserve(missingMustHave)
	}

	var missingRequired, missingPreferred []string
	for _, item := range reqCoverage {
		if item.Status == types.StatusMissing {
			missingRequired = append(missingRequired, item.Skill)
		}
	}
	for _, item := range prefCoverage {
		if item.Status == types.StatusMissing {
			missingPreferred = append(missingPreferred, item.Skill)
		}
	}

	return &types.AtsScoreResponse{
		AtsScore:         clamp(finalScore),
		KeywordScore:     keywordScore,
		RoleScore:        roleScore,
		CappedReason:     cappedReason,
		MissingMustHave:  missingMustHave,
		Required:         reqCoverage,
		Preferred:        prefCoverage,
		MissingRequired:  missingRequired,
		MissingPreferred: missingPreferred,
	}
}

// HasDirectEvidence exposes the resume-wide direct check for collaborators
// (guardrail, batch validation).
func (s *Scorer) HasDirectEvidence(state *types.ResumeState, skill string) bool {
	return s.matcher.HasDirect(state, skill)
}

// mustHaveGates returns the domain tokens the JD mentions, deduplicated in
// list order. Matching is word-boundary: short tokens like "ot" must stand
// alone, not hide inside ordinary words.
func (s *Scorer) mustHaveGates(jdText string) []string {
	var hits []string
	for _, token := range s.lex.MustHaveDomains {
		if lexicon.HasToken(jdText, token) {
			hits = append(hits, token)
		}
	}
	return lexicon.DedupePreserve(hits)
}

// countCovered sums coverage credit: direct counts 1.0, partial counts 0.5
// when strict mode is off, missing counts 0.
func countCovered(coverage []types.SkillCoverage, strictMode bool) float64 {
	total := 0.0
	for _, item := range coverage {
		switch {
		case item.Status == types.StatusDirect:
			total += 1.0
		case item.Status == types.StatusPartial && !strictMode:
			total += partialCredit
		}
	}
	return total
}

func roundToInt(v float64) int {
	return int(math.Round(v))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
