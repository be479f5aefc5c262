package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/config"
	"github.com/jonathan/resume-ats/internal/db"
	"github.com/jonathan/resume-ats/internal/llm"
	"github.com/jonathan/resume-ats/internal/types"
)

// mockStore is an in-memory Store for handler tests.
type mockStore struct {
	resumes   map[uuid.UUID]*db.Resume
	overrides map[uuid.UUID]*types.Overrides
}

func newMockStore() *mockStore {
	return &mockStore{
		resumes:   make(map[uuid.UUID]*db.Resume),
		overrides: make(map[uuid.UUID]*types.Overrides),
	}
}

func (m *mockStore) CreateResume(_ context.Context, name string, state *types.ResumeState) (uuid.UUID, error) {
	id := uuid.New()
	m.resumes[id] = &db.Resume{ID: id, Name: name, Version: 1, State: state}
	return id, nil
}

func (m *mockStore) GetResume(_ context.Context, resumeID uuid.UUID) (*db.Resume, error) {
	resume, ok := m.resumes[resumeID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return resume, nil
}

func (m *mockStore) AppendResumeVersion(_ context.Context, resumeID uuid.UUID, state *types.ResumeState) (int, error) {
	resume, ok := m.resumes[resumeID]
	if !ok {
		return 0, db.ErrNotFound
	}
	resume.Version++
	resume.State = state
	return resume.Version, nil
}

func (m *mockStore) ListResumeVersions(_ context.Context, resumeID uuid.UUID) ([]db.VersionSummary, error) {
	resume, ok := m.resumes[resumeID]
	if !ok {
		return nil, db.ErrNotFound
	}
	versions := make([]db.VersionSummary, 0, resume.Version)
	for v := resume.Version; v >= 1; v-- {
		versions = append(versions, db.VersionSummary{Version: v})
	}
	return versions, nil
}

func (m *mockStore) LoadOverrides(_ context.Context, resumeID uuid.UUID) (*types.Overrides, error) {
	if overrides, ok := m.overrides[resumeID]; ok {
		return overrides, nil
	}
	return &types.Overrides{Skills: []types.OverrideSkill{}}, nil
}

func (m *mockStore) SaveOverrides(_ context.Context, resumeID uuid.UUID, overrides *types.Overrides) error {
	m.overrides[resumeID] = overrides
	return nil
}

func newTestServer(t *testing.T, store Store) *Server {
	t.Helper()
	t.Setenv("ATS_JWT_SECRET", "")
	t.Setenv("ATS_RATE_LIMIT_ENABLED", "")

	cfg := &config.Config{
		Port:              8080,
		DefaultTruthMode:  types.TruthModeBalanced,
		DefaultTopNSkills: 25,
	}
	srv, err := New(cfg, store, llm.NewJDParser(nil))
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func seedResume(store *mockStore) uuid.UUID {
	id := uuid.New()
	store.resumes[id] = &db.Resume{
		ID:      id,
		Name:    "Jane Doe",
		Version: 1,
		State: &types.ResumeState{
			Sections: types.Sections{
				ProfessionalSummary: "Data engineer focused on analytics platforms.",
				TechnicalSkills:     []string{"SQL, Python"},
				Experience: []types.Role{
					{RoleID: "role-1", Company: "Acme Analytics", Title: "Senior Data Engineer", Dates: "Jan 2020 - Present",
						Bullets: []string{"Built SQL reporting pipelines.", "Owned warehouse loads."}},
					{RoleID: "role-2", Company: "Initech", Title: "Data Analyst", Dates: "Mar 2017 - Dec 2019",
						Bullets: []string{"Automated reporting with Python."}},
				},
			},
		},
	}
	return id
}

const sampleResumeText = `PROFESSIONAL SUMMARY
Data engineer with warehouse experience.

TECHNICAL SKILLS
- SQL, Python

PROFESSIONAL EXPERIENCE
Acme Analytics | Senior Data Engineer
Jan 2020 - Present
- Built SQL reporting pipelines.
`

func TestHealth(t *testing.T) {
	srv := newTestServer(t, newMockStore())
	rec := doJSON(t, srv, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateResume_FromText(t *testing.T) {
	store := newMockStore()
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes", map[string]any{
		"name":        "Jane Doe",
		"resume_text": sampleResumeText,
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[ResumeResponse](t, rec)
	assert.Equal(t, 1, resp.Version)
	require.NotNil(t, resp.State)
	require.Len(t, resp.State.Sections.Experience, 1)
	assert.Equal(t, "Acme Analytics", resp.State.Sections.Experience[0].Company)
	assert.Len(t, store.resumes, 1)
}

func TestCreateResume_TextAndStateRejected(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	rec := doJSON(t, srv, http.MethodPost, "/resumes", map[string]any{
		"name":        "Jane Doe",
		"resume_text": "text",
		"state":       map[string]any{"sections": map[string]any{}},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetResume(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodGet, "/resumes/"+id.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[ResumeResponse](t, rec)
	assert.Equal(t, id.String(), resp.ResumeID)
	assert.Equal(t, "Jane Doe", resp.Name)
}

func TestGetResume_NotFound(t *testing.T) {
	srv := newTestServer(t, newMockStore())
	rec := doJSON(t, srv, http.MethodGet, "/resumes/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetResume_InvalidID(t *testing.T) {
	srv := newTestServer(t, newMockStore())
	rec := doJSON(t, srv, http.MethodGet, "/resumes/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAtsScore_InlineText(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	rec := doJSON(t, srv, http.MethodPost, "/ats-score", map[string]any{
		"resume_text": sampleResumeText,
		"jd_text":     "Requirements:\n- SQL and Python",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[types.AtsScoreResponse](t, rec)
	assert.Equal(t, 100, resp.AtsScore)
}

func TestAtsScore_BothSourcesRejected(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	rec := doJSON(t, srv, http.MethodPost, "/ats-score", map[string]any{
		"resume_id":   uuid.NewString(),
		"resume_text": "text",
		"jd_text":     "Requirements: SQL",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAtsScore_StoredResumeNotFound(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	rec := doJSON(t, srv, http.MethodPost, "/ats-score", map[string]any{
		"resume_id": uuid.NewString(),
		"jd_text":   "Requirements: SQL",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExtractSkills(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	rec := doJSON(t, srv, http.MethodPost, "/jd/extract-skills", map[string]any{
		"jd_text": "Requirements:\n- SQL and Airflow\nNice to have:\n- Tableau",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string][]string](t, rec)
	assert.Equal(t, []string{"SQL", "Airflow"}, body["required"])
	assert.Equal(t, []string{"Tableau"}, body["preferred"])
}

func TestParseJD_InlineText(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	rec := doJSON(t, srv, http.MethodPost, "/jd/parse", map[string]any{
		"jd_text": "Senior Data Engineer\nMust have: SQL, Python",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	profile := decode[types.JDProfile](t, rec)
	assert.Equal(t, "Senior Data Engineer", profile.Role)
	assert.Equal(t, "senior", profile.Seniority)
}

func TestParseJD_TextAndURLRejected(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	rec := doJSON(t, srv, http.MethodPost, "/jd/parse", map[string]any{
		"jd_text": "text",
		"jd_url":  "https://example.com/job",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSuggestPatches(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/suggest-patches", map[string]any{
		"jd_text":    "Requirements:\n- Kafka",
		"truth_mode": types.TruthModeOff,
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result struct {
		Patches []types.PatchOperation `json:"patches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Patches, 1)
	assert.Equal(t, "Exposure to Kafka", result.Patches[0].NewBullet)
}

func TestSuggestPatches_InvalidTruthMode(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/suggest-patches", map[string]any{
		"jd_text":    "Requirements: Kafka",
		"truth_mode": "maximal",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestApplyPatches_TruthModeBlocks(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/apply-patches", map[string]any{
		"patches": []map[string]any{{
			"section":    types.SectionExperience,
			"action":     types.ActionInsert,
			"role_id":    "role-1",
			"new_bullet": "Built Kafka pipelines.",
		}},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resume := store.resumes[id]
	assert.Equal(t, 1, resume.Version)
	assert.Len(t, resume.State.Sections.Experience[0].Bullets, 2)
}

func TestApplyPatches_Succeeds(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/apply-patches", map[string]any{
		"patches": []map[string]any{{
			"section":    types.SectionExperience,
			"action":     types.ActionInsert,
			"role_id":    "role-1",
			"new_bullet": "- Tuned SQL workloads for the reporting cluster.",
		}},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[ResumeResponse](t, rec)
	assert.Equal(t, 2, resp.Version)
	assert.Len(t, resp.State.Sections.Experience[0].Bullets, 3)
}

func TestApplyPatches_BadPatchLeavesStateUntouched(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/apply-patches", map[string]any{
		"truth_mode": types.TruthModeOff,
		"patches": []map[string]any{
			{
				"section":    types.SectionExperience,
				"action":     types.ActionInsert,
				"role_id":    "role-1",
				"new_bullet": "Lands first.",
			},
			{
				"section":    types.SectionExperience,
				"action":     types.ActionInsert,
				"role_id":    "role-9",
				"new_bullet": "Fails second.",
			},
		},
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resume := store.resumes[id]
	assert.Equal(t, 1, resume.Version)
	assert.NotContains(t, resume.State.Sections.Experience[0].Bullets, "Lands first.")
}

func TestBlockedPlan(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/blocked-plan", map[string]any{
		"jd_text":    "Requirements:\n- Kafka and Terraform",
		"truth_mode": types.TruthModeStrict,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Blocked []types.BlockedSuggestion `json:"blocked"`
		Count   int                       `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Count)
	assert.Len(t, result.Blocked, 2)
}

func TestSaveAndGetOverrides(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/overrides", map[string]any{
		"skills": []map[string]any{{
			"skill":         "Kafka",
			"level":         types.LevelWorkedWith,
			"target_roles":  []string{"role-1"},
			"proof_bullets": []string{"Ran Kafka consumers in production."},
		}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodGet, "/resumes/"+id.String()+"/overrides", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	overrides := decode[types.Overrides](t, rec)
	require.Len(t, overrides.Skills, 1)
	assert.Equal(t, "Kafka", overrides.Skills[0].Skill)
}

func TestSaveOverrides_UnknownRole(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/overrides", map[string]any{
		"skills": []map[string]any{{
			"skill":        "Kafka",
			"level":        types.LevelWorkedWith,
			"target_roles": []string{"role-9"},
		}},
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveOverrides_BadLevel(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/overrides", map[string]any{
		"skills": []map[string]any{{
			"skill": "Kafka",
			"level": "expert",
		}},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestOverridesFromBlocked(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/overrides/from-blocked", map[string]any{
		"items": []map[string]any{{
			"skill":        "Kafka",
			"level":        types.LevelWorkedWith,
			"role_id":      "role-1",
			"proof_bullet": "Used Kafka to support data ingestion workflows.",
		}},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	overrides := decode[types.Overrides](t, rec)
	require.Len(t, overrides.Skills, 1)
	assert.Equal(t, []string{"role-1"}, overrides.Skills[0].TargetRoles)
	assert.NotNil(t, store.overrides[id])
}

func TestEditBullet_ByRoleID(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPatch, "/resumes/"+id.String()+"/bullet", map[string]any{
		"role_id":      "role-1",
		"bullet_index": 0,
		"new_text":     "- Rebuilt the reporting pipeline in SQL.",
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Rebuilt the reporting pipeline in SQL.", body["bullet"])
	assert.Equal(t, float64(2), body["version"])
	assert.Equal(t, "Rebuilt the reporting pipeline in SQL.", store.resumes[id].State.Sections.Experience[0].Bullets[0])
}

func TestEditBullet_AmbiguousSelector(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	store.resumes[id].State.Sections.Experience = []types.Role{
		{RoleID: "role-1", Company: "Initech", Dates: "2022 - Present", Bullets: []string{"One."}},
		{RoleID: "role-2", Company: "Initech", Dates: "2022 - Present", Bullets: []string{"Two."}},
	}
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPatch, "/resumes/"+id.String()+"/bullet", map[string]any{
		"company":      "Initech",
		"dates":        "2022 - Present",
		"bullet_index": 0,
		"new_text":     "Long enough replacement text.",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestEditBullet_TooShortAfterSanitization(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPatch, "/resumes/"+id.String()+"/bullet", map[string]any{
		"role_id":      "role-1",
		"bullet_index": 0,
		"new_text":     "- short",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSuggestRoles(t *testing.T) {
	store := newMockStore()
	id := seedResume(store)
	srv := newTestServer(t, store)

	rec := doJSON(t, srv, http.MethodPost, "/resumes/"+id.String()+"/roles/suggest", map[string]any{
		"skill":   "SQL",
		"jd_text": "reporting pipelines",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var result struct {
		Skill              string   `json:"skill"`
		SuggestedRoleIDs   []string `json:"suggested_role_ids"`
		ExampleProofBullet string   `json:"example_proof_bullet"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "SQL", result.Skill)
	assert.Contains(t, result.SuggestedRoleIDs, "role-1")
	assert.Contains(t, result.ExampleProofBullet, "Used SQL")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, newMockStore())

	req := httptest.NewRequest(http.MethodOptions, "/resumes", nil)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
