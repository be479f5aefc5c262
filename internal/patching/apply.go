package patching

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-ats/internal/types"
)

var (
	bulletPrefixRe = regexp.MustCompile(`^\s*(?:[-•*]|\d+\.)\s+`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// CleanBullet sanitizes bullet text: tabs and newlines collapse to spaces,
// a leading bullet marker is stripped, and whitespace runs are normalized.
func CleanBullet(text string) string {
	cleaned := strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(text)
	cleaned = bulletPrefixRe.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// Apply mutates state in place, one patch at a time. There is no atomicity
// across patches: a failure partway leaves earlier patches applied, so
// callers needing all-or-nothing semantics snapshot the state first.
func Apply(state *types.ResumeState, patches []types.PatchOperation) error {
	for _, patch := range patches {
		var err error
		if patch.Section == types.SectionTechnicalSkills {
			err = applySkillPatch(state, patch)
		} else {
			err = applyExperiencePatch(state, patch)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// applyExperiencePatch inserts or replaces one bullet on the target role.
func applyExperiencePatch(state *types.ResumeState, patch types.PatchOperation) error {
	if patch.RoleID == "" {
		return &RoleNotFoundError{}
	}
	role := state.FindRole(patch.RoleID)
	if role == nil {
		return &RoleNotFoundError{RoleID: patch.RoleID}
	}
	bullet := CleanBullet(patch.NewBullet)

	switch patch.Action {
	case types.ActionReplace:
		if patch.BulletIndex == nil || *patch.BulletIndex < 0 || *patch.BulletIndex >= len(role.Bullets) {
			idx := -1
			if patch.BulletIndex != nil {
				idx = *patch.BulletIndex
			}
			return &OutOfRangeError{Field: "bullet_index", Index: idx, Len: len(role.Bullets)}
		}
		role.Bullets[*patch.BulletIndex] = bullet
		return nil

	case types.ActionInsert:
		idx := len(role.Bullets) - 1
		if patch.AfterIndex != nil {
			idx = *patch.AfterIndex
		}
		if idx < -1 || idx >= len(role.Bullets) {
			return &OutOfRangeError{Field: "after_index", Index: idx, Len: len(role.Bullets)}
		}
		role.Bullets = insertAt(role.Bullets, idx+1, bullet)
		return nil

	default:
		return &ValidationError{Message: "unknown patch action: " + patch.Action}
	}
}

// applySkillPatch inserts a line into the technical-skills list. Replace is
// not supported on the skills list.
func applySkillPatch(state *types.ResumeState, patch types.PatchOperation) error {
	if patch.Action != types.ActionInsert {
		return &PolicyError{Message: "only insert is supported for technical_skills"}
	}
	skills := state.Sections.TechnicalSkills
	idx := len(skills) - 1
	if patch.AfterIndex != nil {
		idx = *patch.AfterIndex
	}
	if idx < -1 || idx >= len(skills) {
		return &OutOfRangeError{Field: "after_index", Index: idx, Len: len(skills)}
	}
	state.Sections.TechnicalSkills = insertAt(skills, idx+1, CleanBullet(patch.NewBullet))
	return nil
}

func insertAt(list []string, at int, value string) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, list[:at]...)
	out = append(out, value)
	out = append(out, list[at:]...)
	return out
}
