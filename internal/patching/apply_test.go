package patching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/types"
)

func twoRoleState() *types.ResumeState {
	return &types.ResumeState{
		Sections: types.Sections{
			TechnicalSkills: []string{"SQL, Python"},
			Experience: []types.Role{
				{RoleID: "role-1", Company: "Acme Analytics", Bullets: []string{"Built pipelines.", "Shipped dashboards."}},
				{RoleID: "role-2", Company: "Initech", Bullets: []string{"Automated reporting."}},
			},
		},
	}
}

func intPtr(v int) *int { return &v }

func TestCleanBullet(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"- Built pipelines", "Built pipelines"},
		{"• Shipped dashboards", "Shipped dashboards"},
		{"* Wrote tests", "Wrote tests"},
		{"3. Numbered item", "Numbered item"},
		{"  Built\tETL\njobs  fast  ", "Built ETL jobs fast"},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanBullet(tt.in))
	}
}

func TestApply_InsertAppendsWithNilAnchor(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:   types.SectionExperience,
		Action:    types.ActionInsert,
		RoleID:    "role-1",
		NewBullet: "- New bullet.",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"Built pipelines.", "Shipped dashboards.", "New bullet."}, state.Sections.Experience[0].Bullets)
}

func TestApply_InsertAtNegativeOnePrepends(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:    types.SectionExperience,
		Action:     types.ActionInsert,
		RoleID:     "role-1",
		AfterIndex: intPtr(-1),
		NewBullet:  "First now.",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"First now.", "Built pipelines.", "Shipped dashboards."}, state.Sections.Experience[0].Bullets)
}

func TestApply_InsertAnchorOutOfRange(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:    types.SectionExperience,
		Action:     types.ActionInsert,
		RoleID:     "role-1",
		AfterIndex: intPtr(2),
		NewBullet:  "Too far.",
	}})

	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "after_index", oor.Field)
	assert.Equal(t, 2, oor.Index)
}

func TestApply_ReplaceBullet(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:     types.SectionExperience,
		Action:      types.ActionReplace,
		RoleID:      "role-2",
		BulletIndex: intPtr(0),
		NewBullet:   "- Automated reporting with Python.",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"Automated reporting with Python."}, state.Sections.Experience[1].Bullets)
}

func TestApply_ReplaceWithoutIndexFails(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:   types.SectionExperience,
		Action:    types.ActionReplace,
		RoleID:    "role-1",
		NewBullet: "No target.",
	}})

	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "bullet_index", oor.Field)
}

func TestApply_UnknownRole(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:   types.SectionExperience,
		Action:    types.ActionInsert,
		RoleID:    "role-9",
		NewBullet: "Nowhere to go.",
	}})

	var notFound *RoleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "role-9", notFound.RoleID)
}

func TestApply_UnknownAction(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:   types.SectionExperience,
		Action:    "delete",
		RoleID:    "role-1",
		NewBullet: "x",
	}})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestApply_SkillsInsert(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:   types.SectionTechnicalSkills,
		Action:    types.ActionInsert,
		NewBullet: "Kafka",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"SQL, Python", "Kafka"}, state.Sections.TechnicalSkills)
}

func TestApply_SkillsInsertIntoEmptyList(t *testing.T) {
	state := &types.ResumeState{}
	err := Apply(state, []types.PatchOperation{{
		Section:   types.SectionTechnicalSkills,
		Action:    types.ActionInsert,
		NewBullet: "Kafka",
	}})

	require.NoError(t, err)
	assert.Equal(t, []string{"Kafka"}, state.Sections.TechnicalSkills)
}

func TestApply_SkillsReplaceRejected(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{{
		Section:     types.SectionTechnicalSkills,
		Action:      types.ActionReplace,
		BulletIndex: intPtr(0),
		NewBullet:   "Kafka",
	}})

	var policy *PolicyError
	require.ErrorAs(t, err, &policy)
}

func TestApply_SequentialNotAtomic(t *testing.T) {
	state := twoRoleState()
	err := Apply(state, []types.PatchOperation{
		{Section: types.SectionExperience, Action: types.ActionInsert, RoleID: "role-1", NewBullet: "Lands."},
		{Section: types.SectionExperience, Action: types.ActionInsert, RoleID: "role-9", NewBullet: "Fails."},
	})

	require.Error(t, err)
	// The first patch stays applied; callers wanting all-or-nothing
	// snapshot the state before calling Apply.
	assert.Contains(t, state.Sections.Experience[0].Bullets, "Lands.")
}
