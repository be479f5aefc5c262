package types

// JDProfile is the structured view of a job description produced by the
// LLM parser or its rule-based fallback.
type JDProfile struct {
	Role             string   `json:"role"`
	Domain           string   `json:"domain,omitempty"`
	Seniority        string   `json:"seniority,omitempty"`
	MustHaveSkills   []string `json:"must_have_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Responsibilities []string `json:"responsibilities"`
}
