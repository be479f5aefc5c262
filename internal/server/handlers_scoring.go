package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/resume-ats/internal/fetch"
	"github.com/jonathan/resume-ats/internal/parsing"
	"github.com/jonathan/resume-ats/internal/patching"
	"github.com/jonathan/resume-ats/internal/types"
)

// AtsScoreRequest scores a stored resume or inline resume text against a
// job description.
type AtsScoreRequest struct {
	ResumeID   string `json:"resume_id,omitempty"`
	ResumeText string `json:"resume_text,omitempty"`
	JDText     string `json:"jd_text" validate:"required"`
	TopNSkills int    `json:"top_n_skills,omitempty" validate:"omitempty,min=1,max=100"`
	StrictMode bool   `json:"strict_mode,omitempty"`
}

// Validate checks field constraints and the resume source exclusivity.
func (r *AtsScoreRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if (r.ResumeID == "") == (r.ResumeText == "") {
		return &patching.ValidationError{Message: "provide exactly one of resume_id or resume_text"}
	}
	return nil
}

// resolveState loads the resume state named by a resume_id/resume_text
// pair, parsing inline text on the fly.
func (s *Server) resolveState(r *http.Request, resumeIDStr, resumeText string) (*types.ResumeState, error) {
	if resumeText != "" {
		return parsing.ParseResumeText(resumeText), nil
	}
	id, err := uuid.Parse(resumeIDStr)
	if err != nil {
		return nil, &patching.ValidationError{Message: "invalid resume_id"}
	}
	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return resume.State, nil
}

// handleAtsScore scores a resume against a job description.
func (s *Server) handleAtsScore(w http.ResponseWriter, r *http.Request) {
	var req AtsScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	state, err := s.resolveState(r, req.ResumeID, req.ResumeText)
	if err != nil {
		s.engineError(w, err)
		return
	}

	topN := req.TopNSkills
	if topN == 0 {
		topN = s.cfg.DefaultTopNSkills
	}

	s.jsonResponse(w, http.StatusOK, s.scorer.ScoreResumeAgainstJD(req.JDText, state, topN, req.StrictMode))
}

// ExtractSkillsRequest pulls required/preferred skills out of JD text.
type ExtractSkillsRequest struct {
	JDText string `json:"jd_text" validate:"required"`
	Cap    int    `json:"cap,omitempty" validate:"omitempty,min=1,max=100"`
}

// Validate checks field constraints.
func (r *ExtractSkillsRequest) Validate() error {
	return validate.Struct(r)
}

// handleExtractSkills returns the skills mentioned by a job description.
func (s *Server) handleExtractSkills(w http.ResponseWriter, r *http.Request) {
	var req ExtractSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	limit := req.Cap
	if limit == 0 {
		limit = s.cfg.DefaultTopNSkills
	}

	skills := s.extractor.ExtractSkills(req.JDText, limit)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"required":  skills.Required,
		"preferred": skills.Preferred,
	})
}

// ParseJDRequest parses a JD into a structured profile. The posting can
// arrive inline or as a URL to fetch.
type ParseJDRequest struct {
	JDText string `json:"jd_text,omitempty"`
	JDURL  string `json:"jd_url,omitempty" validate:"omitempty,url"`
}

// Validate checks field constraints and the text/url exclusivity.
func (r *ParseJDRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if (r.JDText == "") == (r.JDURL == "") {
		return &patching.ValidationError{Message: "provide exactly one of jd_text or jd_url"}
	}
	return nil
}

// handleParseJD returns a structured job profile for a posting.
func (s *Server) handleParseJD(w http.ResponseWriter, r *http.Request) {
	var req ParseJDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	jdText := req.JDText
	if req.JDURL != "" {
		text, err := fetch.JobText(r.Context(), req.JDURL, nil)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch posting: "+err.Error())
			return
		}
		jdText = text
	}

	s.jsonResponse(w, http.StatusOK, s.jdParser.ParseJD(r.Context(), jdText))
}
