package argsplit

import "strings"

// Join renders words back into a single value that Split parses back into
// an equal slice (spec §8.2's idempotence property: Split(Join(w)) == w).
// Words needing no quoting are emitted bare; anything else is wrapped in
// double quotes with backslashes and embedded quotes escaped.
func Join(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = joinWord(w)
	}
	return strings.Join(parts, " ")
}

func joinWord(w string) string {
	if w != "" && !needsQuoting(w) {
		return w
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(w); i++ {
		switch w[i] {
		case '\\', '"':
			b.WriteByte('\\')
			b.WriteByte(w[i])
		default:
			b.WriteByte(w[i])
		}
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuoting(w string) bool {
	for i := 0; i < len(w); i++ {
		switch w[i] {
		case ' ', '\t', '\'', '"', '\\':
			return true
		}
	}
	return false
}
