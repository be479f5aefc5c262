package patching

import (
	"github.com/jonathan/resume-ats/internal/types"
)

// minProofBulletLen is the minimum sanitized proof-bullet length accepted
// when building overrides from blocked suggestions.
const minProofBulletLen = 5

// OverrideItem is one accepted blocked suggestion to fold into overrides.
type OverrideItem struct {
	Skill       string `json:"skill"`
	Level       string `json:"level"`
	RoleID      string `json:"role_id"`
	ProofBullet string `json:"proof_bullet"`
}

// UpsertOverrides merges accepted blocked suggestions into an override set.
// Existing entries are updated in place: level replaced, target role and
// sanitized proof bullet appended if new, proof bullets capped at
// types.MaxProofBullets. Unknown role IDs and proof bullets shorter than
// minProofBulletLen after sanitization fail the whole batch.
func UpsertOverrides(state *types.ResumeState, overrides *types.Overrides, items []OverrideItem) error {
	for _, item := range items {
		if state.FindRole(item.RoleID) == nil {
			return &RoleNotFoundError{RoleID: item.RoleID}
		}

		cleaned := CleanBullet(item.ProofBullet)
		if len(cleaned) < minProofBulletLen {
			return &ValidationError{Message: "proof_bullet is too short after sanitization"}
		}

		if entry := overrides.Find(item.Skill); entry != nil {
			entry.Level = item.Level
			if !containsString(entry.TargetRoles, item.RoleID) {
				entry.TargetRoles = append(entry.TargetRoles, item.RoleID)
			}
			if !containsString(entry.ProofBullets, cleaned) {
				entry.ProofBullets = append(entry.ProofBullets, cleaned)
			}
			if len(entry.ProofBullets) > types.MaxProofBullets {
				entry.ProofBullets = entry.ProofBullets[:types.MaxProofBullets]
			}
			continue
		}

		overrides.Skills = append(overrides.Skills, types.OverrideSkill{
			Skill:        item.Skill,
			Level:        item.Level,
			TargetRoles:  []string{item.RoleID},
			ProofBullets: []string{cleaned},
		})
	}
	return nil
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
