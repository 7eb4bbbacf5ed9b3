package textutil

import (
	"net/url"
	"strings"
)

// unsafeFileChars are escaped by EscapeFileName. The escape character itself
// is included so the mapping stays reversible.
const unsafeFileChars = "%/\\:*?\"<>|"

// EscapeFileName turns name into a single path element. Unsafe characters,
// control bytes and leading or trailing spaces are percent-encoded as %XX.
// Distinct names always produce distinct results, and names made of letters,
// digits, '-' and '_' are returned unchanged.
func EscapeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	last := len(name) - 1
	for i := 0; i < len(name); i++ {
		c := name[i]
		edgeSpace := c == ' ' && (i == 0 || i == last)
		if c < 0x20 || c == 0x7f || edgeSpace || strings.IndexByte(unsafeFileChars, c) >= 0 {
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// UnescapeFileName reverses EscapeFileName.
func UnescapeFileName(escaped string) (string, error) {
	return url.PathUnescape(escaped)
}

const upperHex = "0123456789ABCDEF"
