package application_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/job-importer/internal/module/importer/application"
	"github.com/jinford/job-importer/internal/module/importer/domain"
	testutil "github.com/jinford/job-importer/internal/module/importer/testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestReferenceReconciler_EnsureCompany_CreatesWhenAbsent(t *testing.T) {
	// Setup
	ctx := context.Background()
	var inserted []domain.Company

	repos := testutil.MockRepositories()
	repos.Companies = &testutil.MockCompanyRepository{
		ExistsFunc: func(ctx context.Context, id int64) (bool, error) {
			assert.Equal(t, int64(77), id)
			return false, nil
		},
		InsertFunc: func(ctx context.Context, company domain.Company) error {
			inserted = append(inserted, company)
			return nil
		},
	}
	reconciler := application.NewReferenceReconciler(repos, newTestLogger())

	// Execute
	created, err := reconciler.EnsureCompany(ctx, testutil.ExampleRecord())

	// Assert
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []domain.Company{{ID: 77, Name: "Acme"}}, inserted)
}

func TestReferenceReconciler_EnsureCompany_KeepsExisting(t *testing.T) {
	// Setup
	ctx := context.Background()
	repos := testutil.MockRepositories()
	repos.Companies = &testutil.MockCompanyRepository{
		ExistsFunc: func(ctx context.Context, id int64) (bool, error) {
			return true, nil
		},
		InsertFunc: func(ctx context.Context, company domain.Company) error {
			t.Fatal("existing company must not be written")
			return nil
		},
	}
	reconciler := application.NewReferenceReconciler(repos, newTestLogger())

	// Execute
	created, err := reconciler.EnsureCompany(ctx, testutil.ExampleRecord())

	// Assert
	require.NoError(t, err)
	assert.False(t, created)
}

func TestReferenceReconciler_EnsureCompany_NoCompany(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"ゼロ", "0"},
		{"空文字", ""},
		{"数値以外", "acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repos := testutil.MockRepositories()
			repos.Companies = &testutil.MockCompanyRepository{
				ExistsFunc: func(ctx context.Context, id int64) (bool, error) {
					t.Fatal("store must not be queried")
					return false, nil
				},
			}
			reconciler := application.NewReferenceReconciler(repos, newTestLogger())

			raw := domain.RawRecord{domain.FieldID: "J1", domain.FieldCompany: tt.value, domain.FieldCompanyName: "Acme"}
			created, err := reconciler.EnsureCompany(context.Background(), raw)

			require.NoError(t, err)
			assert.False(t, created)
		})
	}
}

func TestReferenceReconciler_EnsureCompany_StoreError(t *testing.T) {
	// Setup
	repos := testutil.MockRepositories()
	repos.Companies = &testutil.MockCompanyRepository{
		ExistsFunc: func(ctx context.Context, id int64) (bool, error) {
			return false, errors.New("connection reset")
		},
	}
	reconciler := application.NewReferenceReconciler(repos, newTestLogger())

	// Execute
	_, err := reconciler.EnsureCompany(context.Background(), testutil.ExampleRecord())

	// Assert
	require.ErrorIs(t, err, domain.ErrReconciliation)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestReferenceReconciler_EnsureTitle(t *testing.T) {
	// Setup
	var inserted []domain.Title
	repos := testutil.MockRepositories()
	repos.Titles = &testutil.MockTitleRepository{
		InsertFunc: func(ctx context.Context, title domain.Title) error {
			inserted = append(inserted, title)
			return nil
		},
	}
	reconciler := application.NewReferenceReconciler(repos, newTestLogger())

	// Execute
	created, err := reconciler.EnsureTitle(context.Background(), testutil.ExampleRecord())
	require.NoError(t, err)
	noTitle, err := reconciler.EnsureTitle(context.Background(), domain.RawRecord{domain.FieldTitle: "0"})
	require.NoError(t, err)

	// Assert
	assert.True(t, created)
	assert.False(t, noTitle)
	assert.Equal(t, []domain.Title{{ID: "T1", Name: "Engineer", LatestVersion: true}}, inserted)
}

func TestReferenceReconciler_EnsureSkills(t *testing.T) {
	// Setup
	var inserted []domain.Skill
	repos := testutil.MockRepositories()
	repos.Skills = &testutil.MockSkillRepository{
		ExistsFunc: func(ctx context.Context, id string) (bool, error) {
			return id == "2", nil
		},
		InsertFunc: func(ctx context.Context, skill domain.Skill) error {
			inserted = append(inserted, skill)
			return nil
		},
	}
	reconciler := application.NewReferenceReconciler(repos, newTestLogger())

	pairs := []domain.SkillPair{
		{ID: "1", Name: "Python"},
		{ID: "2", Name: "SQL"},
		{ID: "1", Name: "Python3"},
		{ID: "3", Name: "Go"},
	}

	// Execute
	created, err := reconciler.EnsureSkills(context.Background(), pairs)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, []domain.Skill{
		{ID: "1", Name: "Python", LatestVersion: true},
		{ID: "3", Name: "Go", LatestVersion: true},
	}, inserted)
}

func TestReferenceReconciler_EnsureSkills_InsertError(t *testing.T) {
	repos := testutil.MockRepositories()
	repos.Skills = &testutil.MockSkillRepository{
		InsertFunc: func(ctx context.Context, skill domain.Skill) error {
			return errors.New("disk full")
		},
	}
	reconciler := application.NewReferenceReconciler(repos, newTestLogger())

	created, err := reconciler.EnsureSkills(context.Background(), []domain.SkillPair{{ID: "1", Name: "Python"}})

	require.ErrorIs(t, err, domain.ErrReconciliation)
	assert.Equal(t, 0, created)
}
