package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/schemas"
	"github.com/jonathan/resume-ats/internal/types"
)

var validate = validator.New()

// CreateResumeRequest ingests a resume either as plain text or as an
// already structured state. Exactly one of the two must be set.
type CreateResumeRequest struct {
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	ResumeText string          `json:"resume_text,omitempty"`
	State      json.RawMessage `json:"state,omitempty"`
}

// Validate checks field constraints and the text/state exclusivity.
func (r *CreateResumeRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if (r.ResumeText == "") == (len(r.State) == 0) {
		return &patching.ValidationError{Message: "provide exactly one of resume_text or state"}
	}
	return nil
}

// ResumeResponse is the envelope for resume reads and writes.
type ResumeResponse struct {
	ResumeID string             `json:"resume_id"`
	Name     string             `json:"name,omitempty"`
	Version  int                `json:"version"`
	State    *types.ResumeState `json:"state"`
}

// handleCreateResume ingests a resume and stores it as version 1.
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var req CreateResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var state *types.ResumeState
	if req.ResumeText != "" {
		state = parsing.ParseResumeText(req.ResumeText)
	} else {
		if err := schemas.ValidateResumeState(req.State); err != nil {
			s.engineError(w, err)
			return
		}
		state = &types.ResumeState{}
		if err := json.Unmarshal(req.State, state); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid state JSON: "+err.Error())
			return
		}
	}

	id, err := s.store.CreateResume(r.Context(), req.Name, state)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, ResumeResponse{
		ResumeID: id.String(),
		Name:     req.Name,
		Version:  1,
		State:    state,
	})
}

// handleGetResume returns the latest version of a resume.
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.engineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ResumeResponse{
		ResumeID: resume.ID.String(),
		Name:     resume.Name,
		Version:  resume.Version,
		State:    resume.State,
	})
}

// EditBulletRequest replaces one bullet in a role picked by role_id or
// company+dates.
type EditBulletRequest struct {
	RoleID      string `json:"role_id,omitempty"`
	Company     string `json:"company,omitempty"`
	Dates       string `json:"dates,omitempty"`
	BulletIndex *int   `json:"bullet_index" validate:"required"`
	NewText     string `json:"new_text" validate:"required"`
}

// Validate checks field constraints.
func (r *EditBulletRequest) Validate() error {
	return validate.Struct(r)
}

const (
	minBulletLen = 10
	maxBulletLen = 300
)

// handleEditBullet replaces a bullet and appends a new resume version.
func (s *Server) handleEditBullet(w http.ResponseWriter, r *http.Request) {
	id, err := resumeID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid resume ID")
		return
	}

	var req EditBulletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	cleaned := patching.CleanBullet(req.NewText)
	if len(cleaned) < minBulletLen || len(cleaned) > maxBulletLen {
		s.errorResponse(w, http.StatusUnprocessableEntity, "new_text must be between 10 and 300 characters after sanitization")
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.engineError(w, err)
		return
	}
	state := resume.State

	roleIdx, err := patching.SelectRoleIndex(state, patching.RoleSelector{
		RoleID:  req.RoleID,
		Company: req.Company,
		Dates:   req.Dates,
	})
	if err != nil {
		s.engineError(w, err)
		return
	}

	role := &state.Sections.Experience[roleIdx]
	idx := *req.BulletIndex
	if idx < 0 || idx >= len(role.Bullets) {
		s.engineError(w, &patching.OutOfRangeError{Field: "bullet_index", Index: idx, Len: len(role.Bullets)})
		return
	}
	role.Bullets[idx] = cleaned

	version, err := s.store.AppendResumeVersion(r.Context(), id, state)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resume_id":    id.String(),
		"version":      version,
		"role_id":      role.RoleID,
		"bullet_index": idx,
		"bullet":       cleaned,
	})
}
