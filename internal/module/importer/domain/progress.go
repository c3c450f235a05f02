package domain

import (
	"fmt"
	"time"
)

// RecordResult は1レコードの処理結果です
type RecordResult struct {
	// RunID は同期実行のID（SyncService が設定）
	RunID string
	// Index は入力内の位置（1始まり）
	Index int
	// JobID はレコードのID（未設定の場合は空）
	JobID string
	// Action は成功時に実行されたアップサートの分岐
	Action UpsertAction
	// Attempts は実行回数
	Attempts int
	// SkillsTruncated は SKILLS / SKILLS_NAME の件数不一致で切り詰めたかどうか
	SkillsTruncated bool
	// Err は失敗時のエラー
	Err error
	// Duration は処理時間
	Duration time.Duration
}

// Succeeded はレコードが成功したかどうかを返します
func (r RecordResult) Succeeded() bool {
	return r.Err == nil
}

// RecordError は失敗したレコードの情報です
type RecordError struct {
	Index int
	JobID string
	Kind  ErrorKind
	Err   error
}

// Error は "record <index>, id <id>: <message>" 形式の文字列を返します
func (e RecordError) Error() string {
	id := e.JobID
	if id == "" {
		id = "unknown"
	}
	return fmt.Sprintf("record %d, id %s: %v", e.Index, id, e.Err)
}

func (e RecordError) Unwrap() error {
	return e.Err
}

// NewRecordError は RecordResult からエラー情報を作成します
func NewRecordError(r RecordResult) RecordError {
	return RecordError{
		Index: r.Index,
		JobID: r.JobID,
		Kind:  ClassifyError(r.Err),
		Err:   r.Err,
	}
}

// BatchProgress はバッチ単位の進捗状況です
type BatchProgress struct {
	RunID string
	// Batch は完了したバッチ番号（1始まり）
	Batch int
	// Batches は総バッチ数
	Batches int
	// Size はこのバッチのレコード数
	Size int
	// Total は総レコード数
	Total int
	// Attempted は処理済み（成功・失敗を含む）のレコード数
	Attempted int
	// Processed は成功したレコード数
	Processed int
	Inserted  int
	Updated   int
	Errored   int
	// ElapsedTime は実行開始からの経過時間
	ElapsedTime time.Duration
}

// String は進捗を文字列表現で返します
func (p BatchProgress) String() string {
	percentage := 0.0
	if p.Total > 0 {
		percentage = float64(p.Attempted) / float64(p.Total) * 100
	}
	return fmt.Sprintf(
		"Batch %d/%d | Records: %d/%d (%.1f%%) | Inserted: %d | Updated: %d | Errors: %d | Elapsed: %s",
		p.Batch, p.Batches,
		p.Attempted, p.Total, percentage,
		p.Inserted, p.Updated, p.Errored,
		p.ElapsedTime.Round(time.Millisecond),
	)
}

// RunSummary は同期実行全体の集計結果です
type RunSummary struct {
	RunID string
	Total int
	// Attempted は処理済み（成功・失敗を含む）のレコード数
	Attempted int
	// Processed は成功したレコード数
	Processed int
	Inserted  int
	Updated   int
	Errored   int
	Truncated int
	Batches   int
	Errors    []RecordError

	StartedAt  time.Time
	FinishedAt time.Time
	// Aborted はキャンセルにより未処理のバッチが残ったかどうか
	Aborted bool
}

// Duration は実行時間を返します
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// ErrorMessages はレコードエラーを文字列の列で返します
func (s *RunSummary) ErrorMessages() []string {
	msgs := make([]string, 0, len(s.Errors))
	for _, e := range s.Errors {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

// Record はレコード結果を集計に反映します
func (s *RunSummary) Record(r RecordResult) {
	s.Attempted++
	if r.SkillsTruncated {
		s.Truncated++
	}
	if r.Err != nil {
		s.Errored++
		s.Errors = append(s.Errors, NewRecordError(r))
		return
	}
	s.Processed++
	switch r.Action {
	case UpsertActionInserted:
		s.Inserted++
	case UpsertActionUpdated:
		s.Updated++
	}
}

// ErrorsByKind はエラー種別ごとの件数を返します
func (s *RunSummary) ErrorsByKind() map[ErrorKind]int {
	counts := make(map[ErrorKind]int)
	for _, e := range s.Errors {
		counts[e.Kind]++
	}
	return counts
}
