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

func TestUpsertEngine_Upsert(t *testing.T) {
	tests := []struct {
		name       string
		exists     bool
		wantAction domain.UpsertAction
		wantInsert int
		wantUpdate int
	}{
		{
			name:       "存在しない場合は挿入",
			exists:     false,
			wantAction: domain.UpsertActionInserted,
			wantInsert: 1,
		},
		{
			name:       "存在する場合は更新",
			exists:     true,
			wantAction: domain.UpsertActionUpdated,
			wantUpdate: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			inserts, updates := 0, 0
			repo := &testutil.MockJobRepository{
				ExistsFunc: func(ctx context.Context, id string) (bool, error) {
					assert.Equal(t, "J1", id)
					return tt.exists, nil
				},
				InsertFunc: func(ctx context.Context, job *domain.JobRecord) error {
					inserts++
					return nil
				},
				UpdateFunc: func(ctx context.Context, job *domain.JobRecord) error {
					updates++
					return nil
				},
			}
			engine := application.NewUpsertEngine(repo, newTestLogger())

			// Execute
			action, err := engine.Upsert(context.Background(), &domain.JobRecord{ID: "J1"})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, action)
			assert.Equal(t, tt.wantInsert, inserts)
			assert.Equal(t, tt.wantUpdate, updates)
		})
	}
}

func TestUpsertEngine_Upsert_Errors(t *testing.T) {
	t.Run("存在確認の失敗", func(t *testing.T) {
		repo := &testutil.MockJobRepository{
			ExistsFunc: func(ctx context.Context, id string) (bool, error) {
				return false, errors.New("timeout")
			},
		}
		engine := application.NewUpsertEngine(repo, newTestLogger())

		action, err := engine.Upsert(context.Background(), &domain.JobRecord{ID: "J1"})

		require.ErrorIs(t, err, domain.ErrUpsert)
		assert.Empty(t, action)
	})

	t.Run("挿入の失敗", func(t *testing.T) {
		repo := &testutil.MockJobRepository{
			InsertFunc: func(ctx context.Context, job *domain.JobRecord) error {
				return errors.New("unique violation")
			},
		}
		engine := application.NewUpsertEngine(repo, newTestLogger())

		_, err := engine.Upsert(context.Background(), &domain.JobRecord{ID: "J1"})

		require.ErrorIs(t, err, domain.ErrUpsert)
		assert.Contains(t, err.Error(), "unique violation")
	})

	t.Run("IDなし", func(t *testing.T) {
		engine := application.NewUpsertEngine(&testutil.MockJobRepository{}, newTestLogger())

		_, err := engine.Upsert(context.Background(), &domain.JobRecord{})

		require.ErrorIs(t, err, domain.ErrMissingIdentifier)
	})
}
