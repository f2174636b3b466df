package slug

import (
	"strings"
	"unicode"
)

// Make lowercases input and joins runs of letters and digits with dashes.
// Non-Latin letters are kept so Korean coffee names still produce readable file names.
func Make(input string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "untitled"
	}
	return b.String()
}
