// Package uri escapes text for use inside URL query values.
package uri

import "strings"

const upperHex = "0123456789ABCDEF"

// EncodeComponent percent-encodes every byte outside the encodeURIComponent unreserved set
// (letters, digits and -_.!~*'()).
func EncodeComponent(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		writeByte(&b, value[i])
	}
	return b.String()
}

// EscapeQueryValue makes text safe as a single query value. Valid %XX escapes already present
// are kept as they are, so pre-encoded separators such as %0A survive; everything else is
// encoded like EncodeComponent, including '#', '&' and '+'.
func EscapeQueryValue(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '%' && i+2 < len(text) && isHex(text[i+1]) && isHex(text[i+2]) {
			b.WriteString(text[i : i+3])
			i += 2
			continue
		}
		writeByte(&b, c)
	}
	return b.String()
}

func writeByte(b *strings.Builder, c byte) {
	if unreserved(c) {
		b.WriteByte(c)
		return
	}
	b.WriteByte('%')
	b.WriteByte(upperHex[c>>4])
	b.WriteByte(upperHex[c&0x0f])
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
