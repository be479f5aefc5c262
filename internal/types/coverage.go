package types

// Evidence section names.
const (
	SectionSummary         = "summary"
	SectionTechnicalSkills = "technical_skills"
	SectionExperience      = "experience"
)

// Coverage status values.
const (
	StatusDirect  = "direct"
	StatusPartial = "partial"
	StatusMissing = "missing"
)

// SkillEvidence records where a skill was matched in a resume.
// RoleID and BulletIndex are set only for experience-section evidence.
type SkillEvidence struct {
	Section     string `json:"section"`
	RoleID      string `json:"role_id,omitempty"`
	BulletIndex *int   `json:"bullet_index,omitempty"`
	Snippet     string `json:"snippet"`
}

// SkillCoverage classifies how well a single skill is evidenced.
// Invariants: StatusDirect implies at least one exact-token evidence
// record; StatusMissing implies Evidence is empty.
type SkillCoverage struct {
	Skill            string          `json:"skill"`
	Status           string          `json:"status"`
	Evidence         []SkillEvidence `json:"evidence"`
	DirectFromResume bool            `json:"direct_from_resume"`
}

// AtsScoreResponse is the composite scoring report for a resume against a
// job description. All scores are integers in [0, 100].
type AtsScoreResponse struct {
	AtsScore         int             `json:"ats_score"`
	KeywordScore     int             `json:"keyword_score"`
	RoleScore        int             `json:"role_score"`
	CappedReason     string          `json:"capped_reason,omitempty"`
	MissingMustHave  []string        `json:"missing_must_have,omitempty"`
	Required         []SkillCoverage `json:"required"`
	Preferred        []SkillCoverage `json:"preferred"`
	MissingRequired  []string        `json:"missing_required"`
	MissingPreferred []string        `json:"missing_preferred"`
}
