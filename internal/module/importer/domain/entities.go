package domain

import (
	"strings"
	"time"
)

// RawRecord はCSV 1行分の入力です（ヘッダー名 → 文字列値）
// キーは大文字に正規化されている前提です
type RawRecord map[string]string

// Value はフィールド値を返します。未設定または空白のみの場合は ok=false
func (r RawRecord) Value(field string) (string, bool) {
	v, ok := r[field]
	if !ok {
		return "", false
	}
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Scalar はリスト要素の値です（int64, float64, string, bool, nil のいずれか）
type Scalar = any

// JobRecord は jobs テーブルに書き込む正規化済みの求人レコードです
// nil のポインタフィールドは「値なし」を表し、書き込み対象から除外されます
type JobRecord struct {
	ID string

	// 日付（UTCの日付のみ）
	LastUpdatedDate *time.Time
	Expired         *time.Time
	Posted          *time.Time

	// 自由記述
	Body           *string
	TitleRaw       *string
	URL            *string
	Language       *string
	Title          *string
	TitleName      *string
	TitleClean     *string
	Nation         *string
	Occupation     *string
	OccupationName *string
	RemoteType     *string

	Company *int64

	// リスト値。空スライスは「0件であることが既知」を表すため除外しない
	Sources               []Scalar
	Skills                []Scalar
	SpecializedSkills     []Scalar
	SpecializedSkillsName []Scalar
	CommonSkills          []Scalar
	CommonSkillsName      []Scalar
	SoftwareSkills        []Scalar
	SoftwareSkillsName    []Scalar
	Certifications        []Scalar
	CertificationsName    []Scalar

	MinYearsExperience *int
	MaxYearsExperience *int

	LastUpdateImport time.Time
}

// Company は企業マスタです
type Company struct {
	ID   int64
	Name string
}

// Title は職種タクソノミーです
type Title struct {
	ID            string
	Name          string
	LatestVersion bool
}

// Skill はスキルマスタ（skill_2_skill_pt_br）です
type Skill struct {
	ID            string
	Name          string
	LatestVersion bool
}

// JobSkill は求人とスキルの関連です
type JobSkill struct {
	JobID   string
	SkillID string
}

// SkillPair は SKILLS / SKILLS_NAME を位置で組にした値です
type SkillPair struct {
	ID   string
	Name string
}

// UpsertAction はアップサートで実行された分岐です
type UpsertAction string

const (
	UpsertActionInserted UpsertAction = "inserted"
	UpsertActionUpdated  UpsertAction = "updated"
)

// LinkPolicy は job_skill の更新方針です
type LinkPolicy string

const (
	// LinkPolicyReplace はジョブ単位で既存リンクを削除してから挿入します
	LinkPolicyReplace LinkPolicy = "replace"
	// LinkPolicyAdditive は挿入のみ行い、重複は既存扱いにします
	LinkPolicyAdditive LinkPolicy = "additive"
)

// IsValid はポリシーが既知の値かどうかを返します
func (p LinkPolicy) IsValid() bool {
	return p == LinkPolicyReplace || p == LinkPolicyAdditive
}

// SkillPairMode は SKILLS と SKILLS_NAME の件数不一致時の扱いです
type SkillPairMode string

const (
	// SkillPairModeTruncate は短い方に合わせて切り詰めます
	SkillPairModeTruncate SkillPairMode = "truncate"
	// SkillPairModeStrict は件数不一致をレコードエラーにします
	SkillPairModeStrict SkillPairMode = "strict"
)

// IsValid はモードが既知の値かどうかを返します
func (m SkillPairMode) IsValid() bool {
	return m == SkillPairModeTruncate || m == SkillPairModeStrict
}
