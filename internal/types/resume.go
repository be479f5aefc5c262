// Package types defines the shared data structures for the resume ATS engine.
package types

// Role represents a single professional experience entry in a resume.
// RoleID is the stable handle used by patches and overrides; identity,
// not position, is authoritative.
type Role struct {
	RoleID   string   `json:"role_id"`
	Company  string   `json:"company"`
	Title    string   `json:"title,omitempty"`
	Dates    string   `json:"dates,omitempty"`
	Location string   `json:"location,omitempty"`
	Bullets  []string `json:"bullets"`
}

// Sections holds the structured content of a resume.
type Sections struct {
	ProfessionalSummary string   `json:"professional_summary"`
	TechnicalSkills     []string `json:"technical_skills"`
	Experience          []Role   `json:"experience"`
	Education           []string `json:"education"`
}

// ResumeState is the in-memory representation of a resume. It is owned
// exclusively by the caller for the duration of a request; the engine
// never persists it.
type ResumeState struct {
	Sections Sections `json:"sections"`
}

// FindRole returns the role with the given ID, or nil if absent.
func (s *ResumeState) FindRole(roleID string) *Role {
	for i := range s.Sections.Experience {
		if s.Sections.Experience[i].RoleID == roleID {
			return &s.Sections.Experience[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the resume state. Patch application mutates
// in place, so callers that need atomicity snapshot with Clone first.
func (s *ResumeState) Clone() *ResumeState {
	out := &ResumeState{
		Sections: Sections{
			ProfessionalSummary: s.Sections.ProfessionalSummary,
			TechnicalSkills:     append([]string(nil), s.Sections.TechnicalSkills...),
			Education:           append([]string(nil), s.Sections.Education...),
			Experience:          make([]Role, len(s.Sections.Experience)),
		},
	}
	for i, role := range s.Sections.Experience {
		copied := role
		copied.Bullets = append([]string(nil), role.Bullets...)
		out.Sections.Experience[i] = copied
	}
	return out
}
