package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/types"
)

// SuggestPatchesRequest runs the suggestion pass for a stored resume.
type SuggestPatchesRequest struct {
	JDText     string `json:"jd_text" validate:"required"`
	StrictMode bool   `json:"strict_mode,omitempty"`
	TruthMode  string `json:"truth_mode,omitempty" validate:"omitempty,oneof=off balanced strict"`
}

// Validate checks field constraints.
func (r *SuggestPatchesRequest) Validate() error {
	return validate.Struct(r)
}

// handleSuggestPatches scores the resume and returns allowed patches plus
// blocked suggestions with remediation.
func (s *Server) handleSuggestPatches(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req SuggestPatchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	truthMode := req.TruthMode
	if truthMode == "" {
		truthMode = s.cfg.DefaultTruthMode
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

	result := s.suggester.SuggestPatches(req.JDText, resume.State, overrides, req.StrictMode, truthMode)
	s.jsonResponse(w, http.StatusOK, result)
}

// ApplyPatchesRequest applies externally-authored patches to a resume.
type ApplyPatchesRequest struct {
	Patches   []types.PatchOperation `json:"patches" validate:"required,min=1"`
	TruthMode string                 `json:"truth_mode,omitempty" validate:"omitempty,oneof=off balanced strict"`
}

// Validate checks field constraints.
func (r *ApplyPatchesRequest) Validate() error {
	return validate.Struct(r)
}

// handleApplyPatches validates a batch against the truth mode, applies it
// to a snapshot, and appends the result as a new version. Validation is
// all-or-nothing; application failures abort before any version is
// written, so stored state never reflects a partial batch.
func (s *Server) handleApplyPatches(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req ApplyPatchesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	truthMode := req.TruthMode
	if truthMode == "" {
		truthMode = s.cfg.DefaultTruthMode
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

	if err := s.suggester.ValidatePatches(req.Patches, resume.State, overrides, truthMode); err != nil {
		s.engineError(w, err)
		return
	}

	state := resume.State.Clone()
	if err := patching.Apply(state, req.Patches); err != nil {
		s.engineError(w, err)
		return
	}

	version, err := s.store.AppendResumeVersion(r.Context(), id, state)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ResumeResponse{
		ResumeID: id.String(),
		Version:  version,
		State:    state,
	})
}

// BlockedPlanRequest returns only the blocked suggestions for a JD.
type BlockedPlanRequest struct {
	JDText     string `json:"jd_text" validate:"required"`
	StrictMode bool   `json:"strict_mode,omitempty"`
	TruthMode  string `json:"truth_mode,omitempty" validate:"omitempty,oneof=off balanced strict"`
	TopN       int    `json:"top_n,omitempty" validate:"omitempty,min=1,max=50"`
}

// Validate checks field constraints.
func (r *BlockedPlanRequest) Validate() error {
	return validate.Struct(r)
}

// handleBlockedPlan returns what stands between the resume and a clean
// suggestion pass.
func (s *Server) handleBlockedPlan(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req BlockedPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	truthMode := req.TruthMode
	if truthMode == "" {
		truthMode = s.cfg.DefaultTruthMode
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

	blocked := s.suggester.BlockedPlan(req.JDText, resume.State, overrides, req.StrictMode, truthMode, req.TopN)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"blocked": blocked,
		"count":   len(blocked),
	})
}

// SuggestRolesRequest ranks roles for anchoring evidence of a skill.
type SuggestRolesRequest struct {
	Skill  string `json:"skill" validate:"required"`
	JDText string `json:"jd_text,omitempty"`
}

// Validate checks field constraints.
func (r *SuggestRolesRequest) Validate() error {
	return validate.Struct(r)
}

// handleSuggestRoles ranks the resume's roles by fit for a skill and
// offers a proof bullet starting point.
func (s *Server) handleSuggestRoles(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req SuggestRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.engineError(w, err)
		return
	}

	roleIDs := patching.SuggestRolesForSkill(resume.State, req.Skill, req.JDText)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skill":                req.Skill,
		"suggested_role_ids":   roleIDs,
		"example_proof_bullet": patching.ProofBulletTemplate(req.Skill, req.JDText),
	})
}
