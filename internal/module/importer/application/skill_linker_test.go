package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/job-importer/internal/module/importer/application"
	"github.com/jinford/job-importer/internal/module/importer/domain"
	testutil "github.com/jinford/job-importer/internal/module/importer/testing"
)

func TestSkillLinker_Replace(t *testing.T) {
	// Setup
	var gotJobID string
	var gotSkillIDs []string
	repo := &testutil.MockJobSkillRepository{
		ReplaceForJobFunc: func(ctx context.Context, jobID string, skillIDs []string) error {
			gotJobID = jobID
			gotSkillIDs = skillIDs
			return nil
		},
		LinkFunc: func(ctx context.Context, jobID, skillID string) error {
			t.Fatal("replace policy must not call Link")
			return nil
		},
	}
	linker := application.NewSkillLinker(repo, domain.LinkPolicyReplace, newTestLogger())

	// Execute
	err := linker.Link(context.Background(), "J1", []domain.SkillPair{
		{ID: "1", Name: "Python"},
		{ID: "2", Name: "SQL"},
		{ID: "1", Name: "Python"},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "J1", gotJobID)
	assert.Equal(t, []string{"1", "2"}, gotSkillIDs)
}

func TestSkillLinker_Replace_EmptyClearsLinks(t *testing.T) {
	called := false
	repo := &testutil.MockJobSkillRepository{
		ReplaceForJobFunc: func(ctx context.Context, jobID string, skillIDs []string) error {
			called = true
			assert.Empty(t, skillIDs)
			return nil
		},
	}
	linker := application.NewSkillLinker(repo, domain.LinkPolicyReplace, newTestLogger())

	err := linker.Link(context.Background(), "J1", nil)

	require.NoError(t, err)
	assert.True(t, called)
}

func TestSkillLinker_Additive_DuplicateIsBenign(t *testing.T) {
	// Setup
	var linked []string
	repo := &testutil.MockJobSkillRepository{
		LinkFunc: func(ctx context.Context, jobID, skillID string) error {
			if skillID == "1" {
				return domain.ErrDuplicateLink
			}
			linked = append(linked, skillID)
			return nil
		},
	}
	linker := application.NewSkillLinker(repo, domain.LinkPolicyAdditive, newTestLogger())

	// Execute
	err := linker.Link(context.Background(), "J1", []domain.SkillPair{{ID: "1"}, {ID: "2"}})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, linked)
}

func TestSkillLinker_Errors(t *testing.T) {
	t.Run("additiveで重複以外のエラー", func(t *testing.T) {
		repo := &testutil.MockJobSkillRepository{
			LinkFunc: func(ctx context.Context, jobID, skillID string) error {
				return errors.New("foreign key violation")
			},
		}
		linker := application.NewSkillLinker(repo, domain.LinkPolicyAdditive, newTestLogger())

		err := linker.Link(context.Background(), "J1", []domain.SkillPair{{ID: "1"}})

		require.ErrorIs(t, err, domain.ErrLink)
		assert.Contains(t, err.Error(), "foreign key violation")
	})

	t.Run("replaceの失敗", func(t *testing.T) {
		repo := &testutil.MockJobSkillRepository{
			ReplaceForJobFunc: func(ctx context.Context, jobID string, skillIDs []string) error {
				return errors.New("deadlock")
			},
		}
		linker := application.NewSkillLinker(repo, domain.LinkPolicyReplace, newTestLogger())

		err := linker.Link(context.Background(), "J1", []domain.SkillPair{{ID: "1"}})

		require.ErrorIs(t, err, domain.ErrLink)
	})
}

func TestNewSkillLinker_UnknownPolicyFallsBackToReplace(t *testing.T) {
	linker := application.NewSkillLinker(&testutil.MockJobSkillRepository{}, domain.LinkPolicy("bogus"), newTestLogger())

	assert.Equal(t, domain.LinkPolicyReplace, linker.Policy())
}
