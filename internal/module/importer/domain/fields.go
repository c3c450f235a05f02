package domain

import (
	"fmt"
	"time"
)

// 入力CSVのヘッダー名
const (
	FieldID                    = "ID"
	FieldLastUpdatedDate       = "LAST_UPDATED_DATE"
	FieldExpired               = "EXPIRED"
	FieldPosted                = "POSTED"
	FieldBody                  = "BODY"
	FieldTitleRaw              = "TITLE_RAW"
	FieldURL                   = "URL"
	FieldSources               = "SOURCES"
	FieldLanguage              = "LANGUAGE"
	FieldCompany               = "COMPANY"
	FieldCompanyName           = "COMPANY_NAME"
	FieldSkills                = "SKILLS"
	FieldSkillsName            = "SKILLS_NAME"
	FieldTitle                 = "TITLE"
	FieldTitleName             = "TITLE_NAME"
	FieldTitleClean            = "TITLE_CLEAN"
	FieldNation                = "NATION"
	FieldOccupation            = "OCCUPATION"
	FieldOccupationName        = "OCCUPATION_NAME"
	FieldSpecializedSkills     = "SPECIALIZED_SKILLS"
	FieldSpecializedSkillsName = "SPECIALIZED_SKILLS_NAME"
	FieldCommonSkills          = "COMMON_SKILLS"
	FieldCommonSkillsName      = "COMMON_SKILLS_NAME"
	FieldSoftwareSkills        = "SOFTWARE_SKILLS"
	FieldSoftwareSkillsName    = "SOFTWARE_SKILLS_NAME"
	FieldCertifications        = "CERTIFICATIONS"
	FieldCertificationsName    = "CERTIFICATIONS_NAME"
	FieldRemoteType            = "REMOTE_TYPE"
	FieldMinYearsExperience    = "MIN_YEARS_EXPERIENCE"
	FieldMaxYearsExperience    = "MAX_YEARS_EXPERIENCE"
)

// ColumnKind は jobs カラムの値の型です
type ColumnKind int

const (
	KindText      ColumnKind = iota // string
	KindDate                        // time.Time（日付のみ）
	KindInt                         // int
	KindBigInt                      // int64
	KindList                        // []Scalar
	KindTimestamp                   // time.Time
)

// ColumnSpec は jobs テーブルのカラム定義です
type ColumnSpec struct {
	Name string
	Kind ColumnKind
}

// ColumnValue は書き込み対象のカラムと値です
type ColumnValue struct {
	ColumnSpec
	Value any
}

// JobColumns は jobs テーブルのカラム一覧（正規順）です
var JobColumns = []ColumnSpec{
	{"id", KindText},
	{"last_updated_date", KindDate},
	{"body", KindText},
	{"title_raw", KindText},
	{"url", KindText},
	{"sources", KindList},
	{"language", KindText},
	{"company", KindBigInt},
	{"expired", KindDate},
	{"posted", KindDate},
	{"skills", KindList},
	{"title", KindText},
	{"title_name", KindText},
	{"title_clean", KindText},
	{"nation", KindText},
	{"occupation", KindText},
	{"occupation_name", KindText},
	{"specialized_skills", KindList},
	{"specialized_skills_name", KindList},
	{"common_skills", KindList},
	{"common_skills_name", KindList},
	{"software_skills", KindList},
	{"software_skills_name", KindList},
	{"certifications", KindList},
	{"certifications_name", KindList},
	{"remote_type", KindText},
	{"max_years_experience", KindInt},
	{"min_years_experience", KindInt},
	{"last_update_import", KindTimestamp},
}

// Columns は値が存在するカラムのみを正規順で返します
func (j *JobRecord) Columns() []ColumnValue {
	cols := make([]ColumnValue, 0, len(JobColumns))
	for _, spec := range JobColumns {
		v, ok := j.column(spec.Name)
		if !ok {
			continue
		}
		cols = append(cols, ColumnValue{ColumnSpec: spec, Value: v})
	}
	return cols
}

func (j *JobRecord) column(name string) (any, bool) {
	switch name {
	case "id":
		return j.ID, j.ID != ""
	case "last_updated_date":
		return derefTime(j.LastUpdatedDate)
	case "expired":
		return derefTime(j.Expired)
	case "posted":
		return derefTime(j.Posted)
	case "body":
		return derefString(j.Body)
	case "title_raw":
		return derefString(j.TitleRaw)
	case "url":
		return derefString(j.URL)
	case "language":
		return derefString(j.Language)
	case "title":
		return derefString(j.Title)
	case "title_name":
		return derefString(j.TitleName)
	case "title_clean":
		return derefString(j.TitleClean)
	case "nation":
		return derefString(j.Nation)
	case "occupation":
		return derefString(j.Occupation)
	case "occupation_name":
		return derefString(j.OccupationName)
	case "remote_type":
		return derefString(j.RemoteType)
	case "company":
		if j.Company == nil {
			return nil, false
		}
		return *j.Company, true
	case "sources":
		return j.Sources, j.Sources != nil
	case "skills":
		return j.Skills, j.Skills != nil
	case "specialized_skills":
		return j.SpecializedSkills, j.SpecializedSkills != nil
	case "specialized_skills_name":
		return j.SpecializedSkillsName, j.SpecializedSkillsName != nil
	case "common_skills":
		return j.CommonSkills, j.CommonSkills != nil
	case "common_skills_name":
		return j.CommonSkillsName, j.CommonSkillsName != nil
	case "software_skills":
		return j.SoftwareSkills, j.SoftwareSkills != nil
	case "software_skills_name":
		return j.SoftwareSkillsName, j.SoftwareSkillsName != nil
	case "certifications":
		return j.Certifications, j.Certifications != nil
	case "certifications_name":
		return j.CertificationsName, j.CertificationsName != nil
	case "max_years_experience":
		if j.MaxYearsExperience == nil {
			return nil, false
		}
		return *j.MaxYearsExperience, true
	case "min_years_experience":
		if j.MinYearsExperience == nil {
			return nil, false
		}
		return *j.MinYearsExperience, true
	case "last_update_import":
		return j.LastUpdateImport, !j.LastUpdateImport.IsZero()
	}
	return nil, false
}

// SetColumn はストアから読み出したカラム値をレコードに設定します
// value の型は ColumnKind に対応している必要があります
func (j *JobRecord) SetColumn(name string, value any) error {
	var err error
	switch name {
	case "id":
		j.ID, err = as[string](name, value)
	case "last_updated_date":
		j.LastUpdatedDate, err = asPtr[time.Time](name, value)
	case "expired":
		j.Expired, err = asPtr[time.Time](name, value)
	case "posted":
		j.Posted, err = asPtr[time.Time](name, value)
	case "body":
		j.Body, err = asPtr[string](name, value)
	case "title_raw":
		j.TitleRaw, err = asPtr[string](name, value)
	case "url":
		j.URL, err = asPtr[string](name, value)
	case "language":
		j.Language, err = asPtr[string](name, value)
	case "title":
		j.Title, err = asPtr[string](name, value)
	case "title_name":
		j.TitleName, err = asPtr[string](name, value)
	case "title_clean":
		j.TitleClean, err = asPtr[string](name, value)
	case "nation":
		j.Nation, err = asPtr[string](name, value)
	case "occupation":
		j.Occupation, err = asPtr[string](name, value)
	case "occupation_name":
		j.OccupationName, err = asPtr[string](name, value)
	case "remote_type":
		j.RemoteType, err = asPtr[string](name, value)
	case "company":
		j.Company, err = asPtr[int64](name, value)
	case "sources":
		j.Sources, err = as[[]Scalar](name, value)
	case "skills":
		j.Skills, err = as[[]Scalar](name, value)
	case "specialized_skills":
		j.SpecializedSkills, err = as[[]Scalar](name, value)
	case "specialized_skills_name":
		j.SpecializedSkillsName, err = as[[]Scalar](name, value)
	case "common_skills":
		j.CommonSkills, err = as[[]Scalar](name, value)
	case "common_skills_name":
		j.CommonSkillsName, err = as[[]Scalar](name, value)
	case "software_skills":
		j.SoftwareSkills, err = as[[]Scalar](name, value)
	case "software_skills_name":
		j.SoftwareSkillsName, err = as[[]Scalar](name, value)
	case "certifications":
		j.Certifications, err = as[[]Scalar](name, value)
	case "certifications_name":
		j.CertificationsName, err = as[[]Scalar](name, value)
	case "max_years_experience":
		j.MaxYearsExperience, err = asPtr[int](name, value)
	case "min_years_experience":
		j.MinYearsExperience, err = asPtr[int](name, value)
	case "last_update_import":
		var ts *time.Time
		ts, err = asPtr[time.Time](name, value)
		if ts != nil {
			j.LastUpdateImport = *ts
		}
	default:
		return fmt.Errorf("unknown job column: %s", name)
	}
	return err
}

func as[T any](name string, value any) (T, error) {
	var zero T
	if value == nil {
		return zero, nil
	}
	v, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("column %s: unexpected type %T", name, value)
	}
	return v, nil
}

func asPtr[T any](name string, value any) (*T, error) {
	if value == nil {
		return nil, nil
	}
	v, err := as[T](name, value)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func derefString(s *string) (any, bool) {
	if s == nil || *s == "" {
		return nil, false
	}
	return *s, true
}

func derefTime(t *time.Time) (any, bool) {
	if t == nil {
		return nil, false
	}
	return *t, true
}
