package patching

import (
	"strings"

	"github.com/jonathan/resume-ats/internal/types"
)

// ApplyTruthGuardrails filters suggested patches per truth mode and turns
// disallowed ones into blocked suggestions with remediation.
//
// Mode semantics, from most to least permissive:
//   - off: passthrough, nothing is blocked.
//   - balanced: blocks experience insertions for a missing required skill
//     that has no override; technical-skills insertions always pass.
//   - strict: balanced, plus technical-skills insertions lacking both
//     direct evidence and an override.
//
// Patches that pass are returned unchanged and in their original order.
func (s *Suggester) ApplyTruthGuardrails(
	suggestions []types.PatchOperation,
	ats *types.AtsScoreResponse,
	overrides *types.Overrides,
	truthMode string,
	state *types.ResumeState,
	jdText string,
) ([]types.PatchOperation, []types.BlockedSuggestion) {
	if truthMode == types.TruthModeOff {
		return suggestions, nil
	}

	missingRequired := make(map[string]bool, len(ats.MissingRequired))
	for _, skill := range ats.MissingRequired {
		missingRequired[strings.ToLower(skill)] = true
	}
	overrideSkills := overrides.SkillSet()
	directSkills := make(map[string]bool, len(ats.Required))
	for _, cov := range ats.Required {
		if cov.DirectFromResume {
			directSkills[strings.ToLower(strings.TrimSpace(cov.Skill))] = true
		}
	}

	var filtered []types.PatchOperation
	var blocked []types.BlockedSuggestion

	for _, patch := range suggestions {
		skill := strings.TrimSpace(patch.Skill)
		key := strings.ToLower(skill)
		hasOverride := key != "" && overrideSkills[key]
		hasDirect := directSkills[key] || (key != "" && s.matcher.HasDirect(state, key))

		if patch.Section == types.SectionExperience && missingRequired[key] && !hasOverride {
			blocked = append(blocked, s.buildBlockedSuggestion(
				orUnknown(skill),
				"Missing required skill without override; cannot insert into experience in "+truthMode+" mode.",
				types.ActionAddOverride,
				state,
				jdText,
			))
			continue
		}

		if truthMode == types.TruthModeStrict &&
			patch.Section == types.SectionTechnicalSkills && !hasDirect && !hasOverride {
			blocked = append(blocked, s.buildBlockedSuggestion(
				orUnknown(skill),
				"No direct or override evidence; cannot add to technical skills in strict mode.",
				types.ActionDowngradeToExposure,
				state,
				jdText,
			))
			continue
		}

		filtered = append(filtered, patch)
	}

	return filtered, blocked
}

// ValidatePatches is the request-time, all-or-nothing gate applied before
// committing externally-authored patches. Each experience patch's skills —
// the explicit skill field, or every skill the extractor finds in the new
// bullet text — must have an override or direct resume-wide evidence, else
// the whole batch fails naming the offending skill.
func (s *Suggester) ValidatePatches(patches []types.PatchOperation, state *types.ResumeState, overrides *types.Overrides, truthMode string) error {
	if truthMode == types.TruthModeOff {
		return nil
	}

	overrideSkills := overrides.SkillSet()

	for _, patch := range patches {
		if patch.Section != types.SectionExperience {
			continue
		}
		var skills []string
		if patch.Skill != "" {
			skills = []string{patch.Skill}
		} else {
			skills = s.extractor.FindSkillsInText(patch.NewBullet)
		}

		for _, skill := range skills {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" || overrideSkills[key] {
				continue
			}
			if !s.matcher.HasDirect(state, key) {
				return &TruthModeError{TruthMode: truthMode, Skill: skill}
			}
		}
	}
	return nil
}

// buildBlockedSuggestion assembles the remediation record for a blocked
// patch: ranked candidate roles, and for add_override a prefilled payload
// with one target role and one generated proof bullet.
func (s *Suggester) buildBlockedSuggestion(skill, reason, recommendedAction string, state *types.ResumeState, jdText string) types.BlockedSuggestion {
	suggestedRoles := SuggestRolesForSkill(state, skill, jdText)

	var payload *types.ExampleOverridePayload
	if recommendedAction == types.ActionAddOverride {
		targetRoles := suggestedRoles
		if len(targetRoles) > 1 {
			targetRoles = targetRoles[:1]
		}
		payload = &types.ExampleOverridePayload{
			Skills: []types.OverrideSkill{{
				Skill:        skill,
				Level:        types.LevelWorkedWith,
				TargetRoles:  targetRoles,
				ProofBullets: []string{ProofBulletTemplate(skill, jdText)},
			}},
		}
	}

	return types.BlockedSuggestion{
		Skill:                  skill,
		Reason:                 reason,
		RecommendedAction:      recommendedAction,
		SuggestedRoleIDs:       suggestedRoles,
		ExampleOverridePayload: payload,
	}
}

func orUnknown(skill string) string {
	if skill == "" {
		return "unknown"
	}
	return skill
}
