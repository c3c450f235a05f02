package domain

import "errors"

var (
	// ErrMissingIdentifier は ID が空のレコードを拒否する場合のエラー
	ErrMissingIdentifier = errors.New("missing identifier")

	// ErrReconciliation は企業・職種・スキルの存在保証に失敗した場合のエラー
	ErrReconciliation = errors.New("reconciliation failed")

	// ErrUpsert は jobs への書き込みに失敗した場合のエラー
	ErrUpsert = errors.New("upsert failed")

	// ErrLink は job_skill の作成に失敗した場合のエラー
	ErrLink = errors.New("link failed")

	// ErrDuplicateLink は job_skill が既に存在する場合のエラー（additive ポリシーでは無害）
	ErrDuplicateLink = errors.New("job skill link already exists")

	// ErrSkillPairMismatch は SKILLS と SKILLS_NAME の件数が一致しない場合のエラー（strict モード）
	ErrSkillPairMismatch = errors.New("skills and skills_name length mismatch")

	// ErrNotFound は対象が存在しない場合のエラー
	ErrNotFound = errors.New("not found")
)

// ErrorKind はレコード失敗の分類です
type ErrorKind string

const (
	ErrorKindMissingIdentifier ErrorKind = "missing_identifier"
	ErrorKindReconciliation    ErrorKind = "reconciliation"
	ErrorKindUpsert            ErrorKind = "upsert"
	ErrorKindLink              ErrorKind = "link"
	ErrorKindUnknown           ErrorKind = "unknown"
)

// ClassifyError はエラーを分類します
func ClassifyError(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrMissingIdentifier):
		return ErrorKindMissingIdentifier
	case errors.Is(err, ErrReconciliation):
		return ErrorKindReconciliation
	case errors.Is(err, ErrUpsert):
		return ErrorKindUpsert
	case errors.Is(err, ErrLink):
		return ErrorKindLink
	default:
		return ErrorKindUnknown
	}
}

// IsPermanent はリトライしても結果が変わらないエラーかどうかを返します
func IsPermanent(err error) bool {
	return errors.Is(err, ErrMissingIdentifier) || errors.Is(err, ErrSkillPairMismatch)
}
