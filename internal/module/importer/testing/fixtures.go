package testing

import (
	"fmt"
	"time"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// TestSyncedAt はテスト用の同期時刻です
var TestSyncedAt = time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC)

// ExampleRecord は J1 / T1 / Acme(77) / スキル[1,2] の入力行を返します
func ExampleRecord() domain.RawRecord {
	return domain.RawRecord{
		domain.FieldID:          "J1",
		domain.FieldTitle:       "T1",
		domain.FieldTitleName:   "Engineer",
		domain.FieldCompany:     "77",
		domain.FieldCompanyName: "Acme",
		domain.FieldSkills:      "[1,2]",
		domain.FieldSkillsName:  "['Python','SQL']",
	}
}

// TestRecord は最小構成の入力行を返します
func TestRecord(id string) domain.RawRecord {
	return domain.RawRecord{
		domain.FieldID:    id,
		domain.FieldTitle: "TITLE-" + id,
		domain.FieldBody:  "body of " + id,
	}
}

// TestRecords は ID が J1..Jn の入力行を n 件返します
func TestRecords(n int) []domain.RawRecord {
	records := make([]domain.RawRecord, 0, n)
	for i := 1; i <= n; i++ {
		records = append(records, TestRecord(fmt.Sprintf("J%d", i)))
	}
	return records
}
