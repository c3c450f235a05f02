package domain

import (
	"fmt"
	"strings"
	"time"
)

// Normalize は入力1行から正規化済みの JobRecord を組み立てます
//
//   - ID が空の場合は ErrMissingIdentifier を返します
//   - 値なし・空文字のフィールドは除外します（リストは空でも保持します）
//   - LastUpdateImport には常に syncedAt を設定します
func Normalize(raw RawRecord, syncedAt time.Time) (*JobRecord, error) {
	id, ok := raw.Value(FieldID)
	if !ok {
		return nil, fmt.Errorf("%w: field %s is empty", ErrMissingIdentifier, FieldID)
	}

	job := &JobRecord{
		ID:               strings.TrimSpace(id),
		LastUpdatedDate:  dateField(raw, FieldLastUpdatedDate),
		Expired:          dateField(raw, FieldExpired),
		Posted:           dateField(raw, FieldPosted),
		Body:             textField(raw, FieldBody),
		TitleRaw:         textField(raw, FieldTitleRaw),
		URL:              textField(raw, FieldURL),
		Language:         textField(raw, FieldLanguage),
		TitleName:        textField(raw, FieldTitleName),
		TitleClean:       textField(raw, FieldTitleClean),
		Nation:           textField(raw, FieldNation),
		Occupation:       textField(raw, FieldOccupation),
		OccupationName:   textField(raw, FieldOccupationName),
		RemoteType:       textField(raw, FieldRemoteType),
		LastUpdateImport: syncedAt,

		Sources:               listField(raw, FieldSources),
		Skills:                listField(raw, FieldSkills),
		SpecializedSkills:     listField(raw, FieldSpecializedSkills),
		SpecializedSkillsName: listField(raw, FieldSpecializedSkillsName),
		CommonSkills:          listField(raw, FieldCommonSkills),
		CommonSkillsName:      listField(raw, FieldCommonSkillsName),
		SoftwareSkills:        listField(raw, FieldSoftwareSkills),
		SoftwareSkillsName:    listField(raw, FieldSoftwareSkillsName),
		Certifications:        listField(raw, FieldCertifications),
		CertificationsName:    listField(raw, FieldCertificationsName),
	}

	if v, ok := raw.Value(FieldTitle); ok {
		if code, ok := ParseTitleCode(v); ok {
			job.Title = &code
		}
	}

	if v, ok := raw.Value(FieldCompany); ok {
		if companyID, ok := ParseCompanyID(v); ok {
			job.Company = &companyID
		}
	}

	job.MinYearsExperience = yearsField(raw, FieldMinYearsExperience)
	job.MaxYearsExperience = yearsField(raw, FieldMaxYearsExperience)
	if job.MinYearsExperience != nil && job.MaxYearsExperience != nil &&
		*job.MinYearsExperience > *job.MaxYearsExperience {
		// min <= max を満たさない組は両方とも値なしとする
		job.MinYearsExperience = nil
		job.MaxYearsExperience = nil
	}

	return job, nil
}

func textField(raw RawRecord, field string) *string {
	v, ok := raw.Value(field)
	if !ok {
		return nil
	}
	return &v
}

func dateField(raw RawRecord, field string) *time.Time {
	v, ok := raw.Value(field)
	if !ok {
		return nil
	}
	t, ok := ParseDate(v)
	if !ok {
		return nil
	}
	return &t
}

func listField(raw RawRecord, field string) []Scalar {
	v, _ := raw.Value(field)
	return ParseList(v)
}

func yearsField(raw RawRecord, field string) *int {
	v, ok := raw.Value(field)
	if !ok {
		return nil
	}
	n, ok := ParseYears(v)
	if !ok {
		return nil
	}
	return &n
}
