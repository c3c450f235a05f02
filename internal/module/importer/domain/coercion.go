package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// フィールド変換レイヤー
// いずれの関数も入力1値のみに依存する純粋関数で、不正な入力はエラーではなく「値なし」に縮退します

// ParseDate は日付らしい文字列を解析し、UTCの日付（時刻0:00）を返します
// 空白・解析不能な値は ok=false
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	// 入力のタイムゾーンにおける暦日を採用する
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// ParseList はリストリテラル文字列を要素の列に変換します
// 空白・解析不能な値は空の列を返します（nil は返しません）
func ParseList(s string) []Scalar {
	if strings.TrimSpace(s) == "" {
		return []Scalar{}
	}
	items, err := parseListLiteral(s)
	if err != nil {
		return []Scalar{}
	}
	return items
}

// ParseCompanyID は企業IDを解析します
// 空白・"0"・数値以外・0以下の値は「企業なし」として ok=false
func ParseCompanyID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ParseYears は経験年数を解析します
// "3.0" のような小数表記は0方向に切り捨てます。負数・数値以外は ok=false
func ParseYears(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

// ParseTitleCode は職種コードを解析します。空白と "0" は「職種なし」
func ParseTitleCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return "", false
	}
	return s, true
}

// ScalarString はリスト要素を文字列表現に変換します
func ScalarString(v Scalar) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// SkillPairs は SKILLS と SKILLS_NAME を位置で組み合わせます
//
// 件数が異なる場合、truncate モードでは短い方に切り詰めて mismatched=true を返し、
// strict モードでは ErrSkillPairMismatch を返します。
// ID が空の要素は組から除外します。
func SkillPairs(raw RawRecord, mode SkillPairMode) (pairs []SkillPair, mismatched bool, err error) {
	idsText, _ := raw.Value(FieldSkills)
	namesText, _ := raw.Value(FieldSkillsName)
	ids := ParseList(idsText)
	names := ParseList(namesText)

	n := len(ids)
	if len(names) != n {
		if mode == SkillPairModeStrict {
			return nil, true, ErrSkillPairMismatch
		}
		mismatched = true
		n = min(n, len(names))
	}

	pairs = make([]SkillPair, 0, n)
	for i := 0; i < n; i++ {
		id := ScalarString(ids[i])
		if id == "" {
			continue
		}
		pairs = append(pairs, SkillPair{ID: id, Name: ScalarString(names[i])})
	}
	return pairs, mismatched, nil
}
