package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Scalar
	}{
		{"空白を含む", "  [ 1 ,2 ]  ", []Scalar{int64(1), int64(2)}},
		{"末尾カンマ", "[1, 2,]", []Scalar{int64(1), int64(2)}},
		{"負数", "[-3, +4]", []Scalar{int64(-3), int64(4)}},
		{"小数と指数", "[.5, 1e3, 2.5E-1]", []Scalar{0.5, 1000.0, 0.25}},
		{"アンダースコア区切り", "[1_000]", []Scalar{int64(1000)}},
		{"int64を超える整数はfloat64", "[99999999999999999999]", []Scalar{1e20}},
		{"エスケープ", `['it\'s', "a\"b", 'x\\y']`, []Scalar{"it's", `a"b`, `x\y`}},
		{"制御文字エスケープ", `['a\nb\tc']`, []Scalar{"a\nb\tc"}},
		{"Unicodeエスケープ", `['é', '\x41', '\U0001F600']`, []Scalar{"é", "A", "😀"}},
		{"未知のエスケープは保持", `['\d']`, []Scalar{`\d`}},
		{"マルチバイト文字", "['São Paulo', '東京']", []Scalar{"São Paulo", "東京"}},
		{"キーワード", "[True, False, None]", []Scalar{true, false, nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseListLiteral(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListLiteral_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"括弧なし", "1, 2"},
		{"閉じ括弧なし", "[1, 2"},
		{"ネストしたリスト", "[[1], 2]"},
		{"辞書", "[{'a': 1}]"},
		{"閉じクォートなし", "['abc]"},
		{"末尾のゴミ", "[1] x"},
		{"小文字のキーワード", "[true]"},
		{"未知のキーワード", "[Null]"},
		{"連続カンマ", "[1,,2]"},
		{"符号のみ", "[-]"},
		{"不正な16進エスケープ", `['\xZZ']`},
		{"空文字", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseListLiteral(tt.input)
			require.ErrorIs(t, err, errListSyntax)
			assert.Nil(t, got)
		})
	}
}
