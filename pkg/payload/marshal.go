package payload

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

const hex = "0123456789abcdef"

// Marshal renders node as compact single-line JSON. Non-ASCII text is kept
// as UTF-8, HTML characters are not escaped, and control characters such as
// newlines are always escaped.
func Marshal(node Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, node Node) error {
	switch n := node.(type) {
	case nil:
		buf.WriteString(string(Null))
	case String:
		encodeString(buf, string(n))
	case Literal:
		if n == "" {
			return fmt.Errorf("payload: empty literal")
		}
		buf.WriteString(string(n))
	case Sequence:
		buf.WriteByte('[')
		for i, item := range n {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Mapping:
		buf.WriteByte('{')
		first := true
		err := n.Each(func(key string, value Node) error {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			encodeString(buf, key)
			buf.WriteByte(':')
			return encode(buf, value)
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("payload: unsupported node type %T", node)
	}
	return nil
}

// encodeString writes s as a JSON string. Only quotes, backslashes and
// control characters are escaped; every other rune, U+2028 and U+2029
// included, is copied as is. Invalid UTF-8 becomes U+FFFD.
func encodeString(buf *bytes.Buffer, s string) {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	buf.WriteByte('"')
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			continue
		}
		buf.WriteString(s[start:i])
		switch c {
		case '"', '\\':
			buf.WriteByte('\\')
			buf.WriteByte(c)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hex[c>>4])
			buf.WriteByte(hex[c&0xf])
		}
		start = i + 1
	}
	buf.WriteString(s[start:])
	buf.WriteByte('"')
}
