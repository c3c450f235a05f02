package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// SQLite には日付型が無いため、日付と時刻はテキストで保存する
const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

func columnArg(col domain.ColumnValue) (any, error) {
	switch col.Kind {
	case domain.KindText:
		if s, ok := col.Value.(string); ok {
			return s, nil
		}
	case domain.KindDate:
		if t, ok := col.Value.(time.Time); ok {
			return t.UTC().Format(dateLayout), nil
		}
	case domain.KindTimestamp:
		if t, ok := col.Value.(time.Time); ok {
			return t.UTC().Format(timestampLayout), nil
		}
	case domain.KindInt:
		if i, ok := col.Value.(int); ok {
			return int64(i), nil
		}
	case domain.KindBigInt:
		if i, ok := col.Value.(int64); ok {
			return i, nil
		}
	case domain.KindList:
		if items, ok := col.Value.([]domain.Scalar); ok {
			b, err := domain.EncodeList(items)
			if err != nil {
				return nil, err
			}
			return string(b), nil
		}
	}
	return nil, fmt.Errorf("column %s: unexpected value type %T", col.Name, col.Value)
}

func scanTarget(kind domain.ColumnKind) any {
	switch kind {
	case domain.KindInt, domain.KindBigInt:
		return &sql.NullInt64{}
	default:
		return &sql.NullString{}
	}
}

func scannedValue(spec domain.ColumnSpec, target any) (any, error) {
	switch v := target.(type) {
	case *sql.NullInt64:
		if !v.Valid {
			return nil, nil
		}
		if spec.Kind == domain.KindInt {
			return int(v.Int64), nil
		}
		return v.Int64, nil
	case *sql.NullString:
		if !v.Valid {
			return nil, nil
		}
		return parseText(spec, v.String)
	}
	return nil, fmt.Errorf("column %s: unsupported scan target %T", spec.Name, target)
}

func parseText(spec domain.ColumnSpec, s string) (any, error) {
	switch spec.Kind {
	case domain.KindDate:
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", spec.Name, err)
		}
		return t, nil
	case domain.KindTimestamp:
		t, err := time.Parse(timestampLayout, s)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", spec.Name, err)
		}
		return t.UTC(), nil
	case domain.KindList:
		items, err := domain.DecodeList([]byte(s))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", spec.Name, err)
		}
		if items == nil {
			items = []domain.Scalar{}
		}
		return items, nil
	}
	return s, nil
}
