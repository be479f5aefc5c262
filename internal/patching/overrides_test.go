package patching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-ats/internal/types"
)

func TestUpsertOverrides_CreatesNewEntry(t *testing.T) {
	state := twoRoleState()
	overrides := &types.Overrides{}

	err := UpsertOverrides(state, overrides, []OverrideItem{{
		Skill:       "Kafka",
		Level:       types.LevelWorkedWith,
		RoleID:      "role-1",
		ProofBullet: "- Ran Kafka consumers in production.",
	}})

	require.NoError(t, err)
	require.Len(t, overrides.Skills, 1)
	entry := overrides.Skills[0]
	assert.Equal(t, "Kafka", entry.Skill)
	assert.Equal(t, types.LevelWorkedWith, entry.Level)
	assert.Equal(t, []string{"role-1"}, entry.TargetRoles)
	assert.Equal(t, []string{"Ran Kafka consumers in production."}, entry.ProofBullets)
}

func TestUpsertOverrides_UpdatesExistingEntry(t *testing.T) {
	state := twoRoleState()
	overrides := &types.Overrides{Skills: []types.OverrideSkill{{
		Skill:        "Kafka",
		Level:        types.LevelWorkedWith,
		TargetRoles:  []string{"role-1"},
		ProofBullets: []string{"Ran Kafka consumers in production."},
	}}}

	err := UpsertOverrides(state, overrides, []OverrideItem{{
		Skill:       "kafka",
		Level:       types.LevelHandsOn,
		RoleID:      "role-2",
		ProofBullet: "Tuned Kafka partitions for throughput.",
	}})

	require.NoError(t, err)
	require.Len(t, overrides.Skills, 1)
	entry := overrides.Skills[0]
	assert.Equal(t, types.LevelHandsOn, entry.Level)
	assert.Equal(t, []string{"role-1", "role-2"}, entry.TargetRoles)
	assert.Len(t, entry.ProofBullets, 2)
}

func TestUpsertOverrides_DedupesRoleAndBullet(t *testing.T) {
	state := twoRoleState()
	overrides := &types.Overrides{Skills: []types.OverrideSkill{{
		Skill:        "Kafka",
		TargetRoles:  []string{"role-1"},
		ProofBullets: []string{"Ran Kafka consumers in production."},
	}}}

	err := UpsertOverrides(state, overrides, []OverrideItem{{
		Skill:       "Kafka",
		Level:       types.LevelWorkedWith,
		RoleID:      "role-1",
		ProofBullet: "- Ran Kafka consumers in production.",
	}})

	require.NoError(t, err)
	entry := overrides.Skills[0]
	assert.Equal(t, []string{"role-1"}, entry.TargetRoles)
	assert.Len(t, entry.ProofBullets, 1)
}

func TestUpsertOverrides_CapsProofBullets(t *testing.T) {
	state := twoRoleState()
	overrides := &types.Overrides{Skills: []types.OverrideSkill{{
		Skill:        "Kafka",
		ProofBullets: []string{"First proof bullet.", "Second proof bullet.", "Third proof bullet."},
	}}}

	err := UpsertOverrides(state, overrides, []OverrideItem{{
		Skill:       "Kafka",
		Level:       types.LevelHandsOn,
		RoleID:      "role-1",
		ProofBullet: "Fourth proof bullet.",
	}})

	require.NoError(t, err)
	assert.Len(t, overrides.Skills[0].ProofBullets, types.MaxProofBullets)
}

func TestUpsertOverrides_UnknownRoleFailsBatch(t *testing.T) {
	state := twoRoleState()
	overrides := &types.Overrides{}

	err := UpsertOverrides(state, overrides, []OverrideItem{{
		Skill:       "Kafka",
		RoleID:      "role-9",
		ProofBullet: "Ran Kafka in prod.",
	}})

	var notFound *RoleNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Empty(t, overrides.Skills)
}

func TestUpsertOverrides_ShortProofBulletRejected(t *testing.T) {
	state := twoRoleState()
	err := UpsertOverrides(state, &types.Overrides{}, []OverrideItem{{
		Skill:       "Kafka",
		RoleID:      "role-1",
		ProofBullet: "-  ab ",
	}})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}
