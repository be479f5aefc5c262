package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/types"
)

// SaveOverridesRequest replaces the stored override set for a resume.
type SaveOverridesRequest struct {
	Skills []types.OverrideSkill `json:"skills" validate:"required,dive"`
}

// Validate checks field constraints and per-entry invariants.
func (r *SaveOverridesRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for _, skill := range r.Skills {
		if skill.Skill == "" {
			return &patching.ValidationError{Message: "override skill name is required"}
		}
		if skill.Level != types.LevelWorkedWith && skill.Level != types.LevelHandsOn {
			return &patching.ValidationError{Message: "override level must be worked_with or hands_on"}
		}
		if len(skill.ProofBullets) > types.MaxProofBullets {
			return &patching.ValidationError{Message: "at most 3 proof bullets per skill"}
		}
	}
	return nil
}

// handleSaveOverrides replaces a resume's override set. Target roles must
// exist in the latest resume state.
func (s *Server) handleSaveOverrides(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req SaveOverridesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.engineError(w, err)
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.engineError(w, err)
		return
	}
	for _, skill := range req.Skills {
		for _, roleID := range skill.TargetRoles {
			if resume.State.FindRole(roleID) == nil {
				s.engineError(w, &patching.RoleNotFoundError{RoleID: roleID})
				return
			}
		}
	}

	overrides := &types.Overrides{Skills: req.Skills}
	if err := s.store.SaveOverrides(r.Context(), id, overrides); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status": "saved",
		"count":  len(overrides.Skills),
	})
}

// handleGetOverrides returns the stored override set, empty when none
// has been saved.
func (s *Server) handleGetOverrides(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	overrides, err := s.store.LoadOverrides(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, overrides)
}

// OverridesFromBlockedRequest folds accepted blocked suggestions into
// the stored override set.
type OverridesFromBlockedRequest struct {
	Items []patching.OverrideItem `json:"items" validate:"required,min=1,dive"`
}

// Validate checks field constraints.
func (r *OverridesFromBlockedRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	for _, item := range r.Items {
		if item.Skill == "" || item.RoleID == "" {
			return &patching.ValidationError{Message: "each item needs skill and role_id"}
		}
		if item.Level != types.LevelWorkedWith && item.Level != types.LevelHandsOn {
			return &patching.ValidationError{Message: "level must be worked_with or hands_on"}
		}
	}
	return nil
}

// handleOverridesFromBlocked upserts overrides built from accepted
// blocked suggestions and persists the merged set. The batch is
// all-or-nothing: any bad item leaves the stored set untouched.
func (s *Server) handleOverridesFromBlocked(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req OverridesFromBlockedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.engineError(w, err)
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.engineError(w, err)
		return
	}
	overrides, err := s.store.LoadOverrides(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if err := patching.UpsertOverrides(resume.State, overrides, req.Items); err != nil {
		s.engineError(w, err)
		return
	}

	if err := s.store.SaveOverrides(r.Context(), id, overrides); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, overrides)
}
