package textutil

import (
	"strings"
	"unicode"
)

// reservedFileChars are rejected by at least one common filesystem.
const reservedFileChars = `/\:*?"<>|`

// SanitizeFileName makes name safe to use as a single path component.
// Reserved characters and whitespace become dashes, control characters are
// dropped, dash runs collapse, and leading or trailing dots and dashes are
// trimmed so the result can never be "." or "..".
func SanitizeFileName(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsControl(r):
			continue
		case unicode.IsSpace(r) || strings.ContainsRune(reservedFileChars, r):
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
			continue
		}
		b.WriteRune(r)
		dash = r == '-'
	}
	return strings.Trim(b.String(), "-.")
}
