package types

// Patch actions.
const (
	ActionInsert  = "insert"
	ActionReplace = "replace"
)

// Truth-enforcement modes, ordered from most to least permissive.
const (
	TruthModeOff      = "off"
	TruthModeBalanced = "balanced"
	TruthModeStrict   = "strict"
)

// Recommended actions attached to blocked suggestions.
const (
	ActionAddOverride         = "add_override"
	ActionDowngradeToExposure = "downgrade_to_exposure"
)

// PatchOperation is an intended, not-yet-applied edit to one bullet or
// skills-list entry. Applying it is the only mutating act.
//
// For section=experience, RoleID is required. For action=insert, AfterIndex
// is the insertion anchor (nil means append); for action=replace,
// BulletIndex is the target.
type PatchOperation struct {
	Section     string `json:"section"`
	Action      string `json:"action"`
	RoleID      string `json:"role_id,omitempty"`
	AfterIndex  *int   `json:"after_index,omitempty"`
	BulletIndex *int   `json:"bullet_index,omitempty"`
	NewBullet   string `json:"new_bullet"`
	Skill       string `json:"skill,omitempty"`
}

// ExampleOverridePayload is a prefilled overrides request attached to
// blocked suggestions so the caller can submit it directly.
type ExampleOverridePayload struct {
	Skills []OverrideSkill `json:"skills"`
}

// BlockedSuggestion describes a patch the truth guardrail refused, with
// the remediation the user can take instead.
type BlockedSuggestion struct {
	Skill                  string                  `json:"skill"`
	Reason                 string                  `json:"reason"`
	RecommendedAction      string                  `json:"recommended_action"`
	SuggestedRoleIDs       []string                `json:"suggested_role_ids"`
	ExampleOverridePayload *ExampleOverridePayload `json:"example_override_payload,omitempty"`
}
