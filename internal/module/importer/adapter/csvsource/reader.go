package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jinford/job-importer/internal/module/importer/domain"
)

const utf8BOM = "\uFEFF"

// ReadFile は CSV ファイルを読み込み、入力レコード列を返します
func ReadFile(path string) ([]domain.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read は先頭行をヘッダーとして CSV を読み込みます
//
// ヘッダー名は前後の空白を除いて大文字に正規化します。
// 列数がヘッダーより少ない行は、不足分のフィールドを持たないレコードになります。
func Read(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	columns := normalizeHeader(header)

	var records []domain.RawRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(records)+2, err)
		}

		record := make(domain.RawRecord, len(columns))
		for i, value := range row {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			record[columns[i]] = value
		}
		records = append(records, record)
	}

	return records, nil
}

func normalizeHeader(header []string) []string {
	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		columns[i] = strings.ToUpper(strings.TrimSpace(name))
	}
	return columns
}
