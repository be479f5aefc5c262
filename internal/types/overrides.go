package types

import "strings"

// Override claim levels.
const (
	LevelWorkedWith = "worked_with"
	LevelHandsOn    = "hands_on"
)

// MaxProofBullets caps the proof bullets kept per override skill.
const MaxProofBullets = 3

// OverrideSkill is an explicit, user-asserted claim that a skill may be
// attributed to the named roles, bypassing missing-evidence blocks.
type OverrideSkill struct {
	Skill        string   `json:"skill"`
	Level        string   `json:"level"`
	TargetRoles  []string `json:"target_roles"`
	ProofBullets []string `json:"proof_bullets"`
}

// Overrides is the per-resume set of override skills. Created and updated
// by the user, persisted by the caller, loaded per resume id.
type Overrides struct {
	Skills []OverrideSkill `json:"skills"`
}

// Find returns the override entry for a skill (case-insensitive), or nil.
func (o *Overrides) Find(skill string) *OverrideSkill {
	if o == nil {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(skill))
	for i := range o.Skills {
		if strings.ToLower(strings.TrimSpace(o.Skills[i].Skill)) == key {
			return &o.Skills[i]
		}
	}
	return nil
}

// SkillSet returns the lowercased skill names covered by the overrides.
func (o *Overrides) SkillSet() map[string]bool {
	set := make(map[string]bool)
	if o == nil {
		return set
	}
	for _, entry := range o.Skills {
		set[strings.ToLower(strings.TrimSpace(entry.Skill))] = true
	}
	return set
}
