package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var errListSyntax = errors.New("invalid list literal")

// parseListLiteral は "[1, 'a', 2.5, True, None]" 形式のリストリテラルを解析します
// 要素はスカラー値のみ許可し、ネストしたリストや辞書はエラーになります
func parseListLiteral(s string) ([]Scalar, error) {
	p := &listParser{src: s}
	p.skipSpace()
	if !p.consume('[') {
		return nil, p.errorf("expected '['")
	}

	items := []Scalar{}
	p.skipSpace()
	if p.consume(']') {
		return p.done(items)
	}

	for {
		p.skipSpace()
		v, err := p.scalar()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		p.skipSpace()
		if p.consume(']') {
			return p.done(items)
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' or ']'")
		}
		// 末尾カンマ
		p.skipSpace()
		if p.consume(']') {
			return p.done(items)
		}
	}
}

type listParser struct {
	src string
	pos int
}

func (p *listParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", errListSyntax, p.pos, fmt.Sprintf(format, args...))
}

func (p *listParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *listParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *listParser) consume(c byte) bool {
	if p.peek() == c && !p.eof() {
		p.pos++
		return true
	}
	return false
}

func (p *listParser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *listParser) done(items []Scalar) ([]Scalar, error) {
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing input")
	}
	return items, nil
}

func (p *listParser) scalar() (Scalar, error) {
	c := p.peek()
	switch {
	case c == '\'' || c == '"':
		return p.quoted(c)
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	case c >= 'A' && c <= 'Z':
		return p.keyword()
	case p.eof():
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *listParser) keyword() (Scalar, error) {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
			p.pos++
			continue
		}
		break
	}
	switch p.src[start:p.pos] {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}
	p.pos = start
	return nil, p.errorf("unknown keyword")
}

func (p *listParser) number() (Scalar, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	digits := 0
	isFloat := false
scan:
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '_' && digits > 0:
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
		case (c == '-' || c == '+') && isFloat && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E'):
		default:
			break scan
		}
		p.pos++
	}
	if digits == 0 {
		return nil, p.errorf("invalid number")
	}
	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	if !isFloat {
		n, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", text)
	}
	return f, nil
}

func (p *listParser) quoted(quote byte) (Scalar, error) {
	p.pos++ // 開きクォート
	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return nil, p.errorf("newline in string")
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return nil, err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *listParser) escape(b *strings.Builder) error {
	p.pos++ // バックスラッシュ
	if p.eof() {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'x':
		return p.hexRune(b, 2)
	case 'u':
		return p.hexRune(b, 4)
	case 'U':
		return p.hexRune(b, 8)
	default:
		// 未知のエスケープはそのまま残す
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *listParser) hexRune(b *strings.Builder, n int) error {
	if p.pos+n > len(p.src) {
		return p.errorf("truncated escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return p.errorf("invalid escape")
	}
	b.WriteRune(rune(v))
	p.pos += n
	return nil
}
