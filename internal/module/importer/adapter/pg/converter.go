package pg

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jinford/job-importer/internal/module/importer/domain"
)

// DateToPgtype converts time.Time to pgtype.Date
func DateToPgtype(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

// StringToPgtext converts string to pgtype.Text (empty string is NULL)
func StringToPgtext(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// TimestamptzToPgtype converts time.Time to pgtype.Timestamptz
func TimestamptzToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// IntToPgtype converts int to pgtype.Int4
func IntToPgtype(i int) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(i), Valid: true}
}

// Int64ToPgtype converts int64 to pgtype.Int8
func Int64ToPgtype(i int64) pgtype.Int8 {
	return pgtype.Int8{Int64: i, Valid: true}
}

// columnArg はカラム値をクエリ引数に変換します
func columnArg(col domain.ColumnValue) (any, error) {
	switch col.Kind {
	case domain.KindText:
		s, ok := col.Value.(string)
		if !ok {
			return nil, unexpectedType(col)
		}
		return s, nil
	case domain.KindDate:
		t, ok := col.Value.(time.Time)
		if !ok {
			return nil, unexpectedType(col)
		}
		return DateToPgtype(t), nil
	case domain.KindTimestamp:
		t, ok := col.Value.(time.Time)
		if !ok {
			return nil, unexpectedType(col)
		}
		return TimestamptzToPgtype(t), nil
	case domain.KindInt:
		i, ok := col.Value.(int)
		if !ok {
			return nil, unexpectedType(col)
		}
		return IntToPgtype(i), nil
	case domain.KindBigInt:
		i, ok := col.Value.(int64)
		if !ok {
			return nil, unexpectedType(col)
		}
		return Int64ToPgtype(i), nil
	case domain.KindList:
		items, ok := col.Value.([]domain.Scalar)
		if !ok {
			return nil, unexpectedType(col)
		}
		// jsonb には JSON テキストをそのまま渡す
		return domain.EncodeList(items)
	}
	return nil, fmt.Errorf("column %s: unsupported kind %d", col.Name, col.Kind)
}

func unexpectedType(col domain.ColumnValue) error {
	return fmt.Errorf("column %s: unexpected value type %T", col.Name, col.Value)
}

// scanTarget は ColumnKind に応じた Scan 先を返します
func scanTarget(kind domain.ColumnKind) any {
	switch kind {
	case domain.KindDate:
		return &pgtype.Date{}
	case domain.KindTimestamp:
		return &pgtype.Timestamptz{}
	case domain.KindInt:
		return &pgtype.Int4{}
	case domain.KindBigInt:
		return &pgtype.Int8{}
	case domain.KindList:
		return &[]byte{}
	default:
		return &pgtype.Text{}
	}
}

// scannedValue は Scan 結果を SetColumn に渡す値に変換します（NULL は nil）
func scannedValue(spec domain.ColumnSpec, target any) (any, error) {
	switch v := target.(type) {
	case *pgtype.Text:
		if !v.Valid {
			return nil, nil
		}
		return v.String, nil
	case *pgtype.Date:
		if !v.Valid {
			return nil, nil
		}
		return time.Date(v.Time.Year(), v.Time.Month(), v.Time.Day(), 0, 0, 0, 0, time.UTC), nil
	case *pgtype.Timestamptz:
		if !v.Valid {
			return nil, nil
		}
		return v.Time.UTC(), nil
	case *pgtype.Int4:
		if !v.Valid {
			return nil, nil
		}
		return int(v.Int32), nil
	case *pgtype.Int8:
		if !v.Valid {
			return nil, nil
		}
		return v.Int64, nil
	case *[]byte:
		if *v == nil {
			return nil, nil
		}
		items, err := domain.DecodeList(*v)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", spec.Name, err)
		}
		if items == nil {
			items = []domain.Scalar{}
		}
		return items, nil
	}
	return nil, fmt.Errorf("column %s: unsupported scan target %T", spec.Name, target)
}
