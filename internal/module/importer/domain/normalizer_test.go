package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSyncedAt = time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

func TestNormalize_FullRecord(t *testing.T) {
	// Setup
	raw := RawRecord{
		FieldID:                 " J1 ",
		FieldTitle:              "T1",
		FieldTitleName:          "Engineer",
		FieldCompany:            "77",
		FieldCompanyName:        "Acme",
		FieldSkills:             "[1,2]",
		FieldSkillsName:         "['Python','SQL']",
		FieldPosted:             "2024-03-15",
		FieldBody:               "Build things",
		FieldMinYearsExperience: "2.0",
		FieldMaxYearsExperience: "5",
	}

	// Execute
	job, err := Normalize(raw, testSyncedAt)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "J1", job.ID)
	require.NotNil(t, job.Title)
	assert.Equal(t, "T1", *job.Title)
	require.NotNil(t, job.TitleName)
	assert.Equal(t, "Engineer", *job.TitleName)
	require.NotNil(t, job.Company)
	assert.Equal(t, int64(77), *job.Company)
	assert.Equal(t, []Scalar{int64(1), int64(2)}, job.Skills)
	require.NotNil(t, job.Posted)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *job.Posted)
	require.NotNil(t, job.MinYearsExperience)
	assert.Equal(t, 2, *job.MinYearsExperience)
	require.NotNil(t, job.MaxYearsExperience)
	assert.Equal(t, 5, *job.MaxYearsExperience)
	assert.Equal(t, testSyncedAt, job.LastUpdateImport)
}

func TestNormalize_MissingIdentifier(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
	}{
		{"IDなし", RawRecord{FieldTitle: "T1"}},
		{"IDが空文字", RawRecord{FieldID: ""}},
		{"IDが空白のみ", RawRecord{FieldID: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := Normalize(tt.raw, testSyncedAt)
			require.ErrorIs(t, err, ErrMissingIdentifier)
			assert.Nil(t, job)
		})
	}
}

func TestNormalize_DropsAbsentFields(t *testing.T) {
	// Setup
	raw := RawRecord{
		FieldID:              "J2",
		FieldBody:            "",
		FieldURL:             "   ",
		FieldLastUpdatedDate: "not-a-date",
		FieldCompany:         "0",
		FieldTitle:           "0",
		FieldSkills:          "[1, 2",
	}

	// Execute
	job, err := Normalize(raw, testSyncedAt)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, job.Body)
	assert.Nil(t, job.URL)
	assert.Nil(t, job.LastUpdatedDate)
	assert.Nil(t, job.Company)
	assert.Nil(t, job.Title)

	// リストは空でも保持される
	assert.NotNil(t, job.Skills)
	assert.Empty(t, job.Skills)
	assert.NotNil(t, job.Sources)
	assert.NotNil(t, job.CertificationsName)
}

func TestNormalize_KeepsTextUntrimmed(t *testing.T) {
	job, err := Normalize(RawRecord{FieldID: "J3", FieldBody: "  indented\n"}, testSyncedAt)

	require.NoError(t, err)
	require.NotNil(t, job.Body)
	assert.Equal(t, "  indented\n", *job.Body)
}

func TestNormalize_YearsRange(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		max     string
		wantMin *int
		wantMax *int
	}{
		{"両方あり", "1", "3", intPtr(1), intPtr(3)},
		{"同値", "2", "2", intPtr(2), intPtr(2)},
		{"min > max は両方除外", "5", "2", nil, nil},
		{"片方のみ", "", "4", nil, intPtr(4)},
		{"負数は除外", "-1", "4", nil, intPtr(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawRecord{
				FieldID:                 "J4",
				FieldMinYearsExperience: tt.min,
				FieldMaxYearsExperience: tt.max,
			}

			job, err := Normalize(raw, testSyncedAt)

			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, job.MinYearsExperience)
			assert.Equal(t, tt.wantMax, job.MaxYearsExperience)
		})
	}
}

func intPtr(v int) *int {
	return &v
}
