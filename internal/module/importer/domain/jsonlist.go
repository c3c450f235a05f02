package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeList はリスト値をストア保存用の JSON 配列に変換します
func EncodeList(items []Scalar) ([]byte, error) {
	if items == nil {
		items = []Scalar{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return b, nil
}

// DecodeList はストアの JSON 配列をリスト値に戻します
// 整数は int64、それ以外の数値は float64 として復元します
func DecodeList(data []byte) ([]Scalar, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode list: %w", err)
	}

	items := make([]Scalar, 0, len(raw))
	for _, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			items = append(items, v)
			continue
		}
		if i, err := n.Int64(); err == nil {
			items = append(items, i)
			continue
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("failed to decode list number %q: %w", n, err)
		}
		items = append(items, f)
	}
	return items, nil
}
