package unitfile

import "strings"

// Serialize renders the Unit back to unit-file text. It is lossless at the
// model level (re-parsing the output yields an equal Section/Entry
// sequence, spec §8.1) but is not guaranteed byte-identical to the
// original source: line-continuations are collapsed to single lines and
// comment markers are normalized to '#'.
func (u *Unit) Serialize() []byte {
	var b strings.Builder
	for i, s := range u.Sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range s.Comments {
			b.WriteString("# ")
			b.WriteString(c)
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		b.WriteString(s.Name)
		b.WriteString("]\n")
		for _, e := range s.Entries {
			for _, c := range e.Comments {
				b.WriteString("# ")
				b.WriteString(c)
				b.WriteByte('\n')
			}
			b.WriteString(e.Key)
			b.WriteString("=")
			b.WriteString(e.Value)
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}
