package pathexp

import (
	"strconv"
	"strings"
)

// Format renders an Expression back to its textual form, preferring the
// ".name" spelling for identifier-safe field names and falling back to
// "['name']" otherwise. Round-tripping parse/format is therefore
// idempotent modulo that choice, as noted in spec section 8.
func Format(e Expression) string {
	var b strings.Builder
	for _, t := range e.Tokens {
		switch t.Kind {
		case Root:
			b.WriteByte('$')
		case Field:
			if isPlainIdent(t.Name) {
				b.WriteByte('.')
				b.WriteString(t.Name)
			} else {
				b.WriteString("['")
				b.WriteString(t.Name)
				b.WriteString("']")
			}
		case Index:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(t.Idx))
			b.WriteByte(']')
		case Star:
			b.WriteString(".*")
		case StarIndex:
			b.WriteString("[*]")
		}
	}
	return b.String()
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}
