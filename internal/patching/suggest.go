package patching

import (
	"github.com/jonathan/resume-ats/internal/evidence"
	"github.com/jonathan/resume-ats/internal/extraction"
	"github.com/jonathan/resume-ats/internal/lexicon"
	"github.com/jonathan/resume-ats/internal/scoring"
	"github.com/jonathan/resume-ats/internal/types"
)

// maxInsertsPerRole caps override-backed insertions per role so a single
// override cannot bloat one role's bullet list.
const maxInsertsPerRole = 2

// Suggester turns missing-required findings into candidate patches and
// filters them through the truth guardrail.
type Suggester struct {
	lex       *lexicon.Lexicon
	scorer    *scoring.Scorer
	extractor *extraction.Extractor
	matcher   *evidence.Matcher
}

// NewSuggester creates a suggester over the given lexicon.
func NewSuggester(lex *lexicon.Lexicon) *Suggester {
	return &Suggester{
		lex:       lex,
		scorer:    scoring.New(lex),
		extractor: extraction.New(lex),
		matcher:   evidence.New(lex),
	}
}

// Suggestion is the guardrail-filtered outcome of a suggestion pass.
type Suggestion struct {
	Ats     *types.AtsScoreResponse   `json:"ats"`
	Patches []types.PatchOperation    `json:"patches"`
	Blocked []types.BlockedSuggestion `json:"blocked"`
}

// SuggestPatches scores the resume against the JD, builds candidate edits
// for each missing required skill, and applies the truth guardrail.
//
// An override for a missing skill yields up to two experience insertions
// per target role, one per proof bullet, anchored after the role's last
// bullet. Without an override, a skill absent from the whole resume text
// gets a single conservative "Exposure to <skill>" technical-skills
// insertion; skills already present are skipped silently.
func (s *Suggester) SuggestPatches(jdText string, state *types.ResumeState, overrides *types.Overrides, strictMode bool, truthMode string) *Suggestion {
	ats := s.scorer.ScoreResumeAgainstJD(jdText, state, scoring.DefaultTopNSkills, strictMode)

	var suggested []types.PatchOperation
	insertsPerRole := make(map[string]int)

	for _, skill := range ats.MissingRequired {
		if entry := overrides.Find(skill); entry != nil {
			for _, roleID := range entry.TargetRoles {
				if insertsPerRole[roleID] >= maxInsertsPerRole {
					continue
				}
				role := state.FindRole(roleID)
				if role == nil {
					continue
				}
				anchor := len(role.Bullets) - 1
				for _, proof := range entry.ProofBullets {
					if insertsPerRole[roleID] >= maxInsertsPerRole {
						break
					}
					idx := anchor
					suggested = append(suggested, types.PatchOperation{
						Section:    types.SectionExperience,
						Action:     types.ActionInsert,
						RoleID:     roleID,
						AfterIndex: &idx,
						NewBullet:  proof,
						Skill:      skill,
					})
					insertsPerRole[roleID]++
				}
			}
			continue
		}

		if s.matcher.HasDirect(state, skill) {
			continue
		}

		idx := len(state.Sections.TechnicalSkills) - 1
		suggested = append(suggested, types.PatchOperation{
			Section:    types.SectionTechnicalSkills,
			Action:     types.ActionInsert,
			AfterIndex: &idx,
			NewBullet:  "Exposure to " + skill,
			Skill:      skill,
		})
	}

	patches, blocked := s.ApplyTruthGuardrails(suggested, ats, overrides, truthMode, state, jdText)
	return &Suggestion{Ats: ats, Patches: patches, Blocked: blocked}
}

// BlockedPlan returns only the blocked suggestions for a JD, truncated to
// topN when positive. Used to show the user what stands between the resume
// and a clean suggestion pass.
func (s *Suggester) BlockedPlan(jdText string, state *types.ResumeState, overrides *types.Overrides, strictMode bool, truthMode string, topN int) []types.BlockedSuggestion {
	result := s.SuggestPatches(jdText, state, overrides, strictMode, truthMode)
	blocked := result.Blocked
	if topN > 0 && len(blocked) > topN {
		blocked = blocked[:topN]
	}
	return blocked
}
