// Package unitfile implements the systemd/Quadlet unit-file grammar: an
// order-preserving, multi-valued model (spec component B) built by a
// line-continuation- and quote-aware parser (component A).
package unitfile

import "strings"

// Entry is a single key/value pair inside a Section. A key may recur; order
// of its values is preserved both for LookupAll and for serialization.
type Entry struct {
	Key   string
	Value string
	// Comments holds the '#'/';' comment lines immediately preceding this
	// entry in the source, verbatim (without the comment marker), for
	// faithful round-trip serialization.
	Comments []string
}

// Section is a named, ordered bag of Entries. Multiple sections sharing a
// name are never merged in the model; merging only happens at lookup time.
type Section struct {
	Name    string
	Entries []Entry
	// Comments holds comment lines preceding the '[Name]' header.
	Comments []string
}

// Unit is a parsed unit file: an ordered list of Sections plus a per
// (section,key) index for O(1) last/all lookups.
type Unit struct {
	Path     string
	Sections []*Section

	// index maps "Section\x00Key" to the indices (into the matching
	// Section's Entries) of every occurrence, in insertion order.
	index map[string][]sectionEntryRef
}

type sectionEntryRef struct {
	sectionIdx int
	entryIdx   int
}

// NewUnit creates an empty Unit for the given source path (used only for
// diagnostics; it need not exist on disk).
func NewUnit(path string) *Unit {
	return &Unit{Path: path, index: make(map[string][]sectionEntryRef)}
}

func indexKey(section, key string) string {
	return section + "\x00" + key
}

// AddSection always appends a new Section, even if one with the same name
// already exists — spec §3: "Multiple sections with the same name are
// permitted and merged by append" (i.e. merged at lookup time, not here).
func (u *Unit) AddSection(name string) *Section {
	s := &Section{Name: name}
	u.Sections = append(u.Sections, s)
	return s
}

// section returns an existing section by name (last match) or creates one.
func (u *Unit) section(name string) *Section {
	for i := len(u.Sections) - 1; i >= 0; i-- {
		if u.Sections[i].Name == name {
			return u.Sections[i]
		}
	}
	return u.AddSection(name)
}

// Append records an insertion of key=value into the named section, creating
// the section if it doesn't yet exist. Used for multi-valued settings.
func (u *Unit) Append(section, key, value string) {
	u.appendWithComments(section, key, value, nil)
}

func (u *Unit) appendWithComments(section, key, value string, comments []string) {
	s := u.section(section)
	secIdx := u.sectionIndex(s)
	s.Entries = append(s.Entries, Entry{Key: key, Value: value, Comments: comments})
	ik := indexKey(section, key)
	u.index[ik] = append(u.index[ik], sectionEntryRef{sectionIdx: secIdx, entryIdx: len(s.Entries) - 1})
}

func (u *Unit) sectionIndex(target *Section) int {
	for i, s := range u.Sections {
		if s == target {
			return i
		}
	}
	return -1
}

// Set removes all prior occurrences of key in section, then appends value.
// Used for scalar (last-wins) settings that should not accumulate.
func (u *Unit) Set(section, key, value string) {
	u.removeKey(section, key)
	u.Append(section, key, value)
}

// removeKey deletes every Entry for (section, key) and rebuilds the index,
// since entry indices shift once entries are removed.
func (u *Unit) removeKey(section, key string) {
	for _, s := range u.Sections {
		if s.Name != section {
			continue
		}
		kept := s.Entries[:0:0]
		for _, e := range s.Entries {
			if e.Key != key {
				kept = append(kept, e)
			}
		}
		s.Entries = kept
	}
	u.rebuildIndex()
}

func (u *Unit) rebuildIndex() {
	u.index = make(map[string][]sectionEntryRef)
	for secIdx, s := range u.Sections {
		for entryIdx, e := range s.Entries {
			ik := indexKey(s.Name, e.Key)
			u.index[ik] = append(u.index[ik], sectionEntryRef{sectionIdx: secIdx, entryIdx: entryIdx})
		}
	}
}

// LookupLast returns the last recorded value for (section, key) across all
// sections of that name, in insertion order — the "last-wins" semantics
// scalar settings like Image= follow.
func (u *Unit) LookupLast(section, key string) (string, bool) {
	refs := u.index[indexKey(section, key)]
	if len(refs) == 0 {
		return "", false
	}
	last := refs[len(refs)-1]
	return u.Sections[last.sectionIdx].Entries[last.entryIdx].Value, true
}

// LookupAll returns every recorded value for (section, key), in insertion
// order — the semantics multi-valued settings like Mount=/PublishPort=/
// Environment=/AddDevice= follow.
func (u *Unit) LookupAll(section, key string) []string {
	refs := u.index[indexKey(section, key)]
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = u.Sections[r.sectionIdx].Entries[r.entryIdx].Value
	}
	return out
}

// truthyValues and falsyValues implement the boolean grammar spec §4.B
// describes: accepted case-insensitively, anything else is "ambiguous".
var (
	truthyValues = map[string]bool{"1": true, "yes": true, "true": true, "on": true}
	falsyValues  = map[string]bool{"0": true, "no": true, "false": true, "off": true}
)

// LookupBool returns the boolean interpretation of the last value for
// (section, key). The second return is false only if the key is absent.
// An unrecognized value is treated as false (compat with existing
// behavior) — callers that care about ambiguity should warn separately.
func (u *Unit) LookupBool(section, key string) (bool, bool) {
	v, ok := u.LookupLast(section, key)
	if !ok {
		return false, false
	}
	lv := strings.ToLower(strings.TrimSpace(v))
	if truthyValues[lv] {
		return true, true
	}
	// falsyValues and any unrecognized value both resolve to false; the
	// caller distinguishes "ambiguous" by checking IsAmbiguousBool.
	return false, true
}

// IsAmbiguousBool reports whether v is neither a recognized truthy nor
// falsy spelling, so callers can emit the spec §7 "ambiguous boolean
// values" warning.
func IsAmbiguousBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return !truthyValues[lv] && !falsyValues[lv]
}

// AmbiguousBoolKeys returns the subset of keys present in section whose
// last recorded value is neither a recognized truthy nor falsy spelling,
// for a caller to raise the spec §7 "ambiguous boolean values" warning.
func (u *Unit) AmbiguousBoolKeys(section string, keys ...string) []string {
	var out []string
	for _, k := range keys {
		if v, ok := u.LookupLast(section, k); ok && IsAmbiguousBool(v) {
			out = append(out, k)
		}
	}
	return out
}

// HasSection reports whether the unit has at least one section with name.
func (u *Unit) HasSection(name string) bool {
	for _, s := range u.Sections {
		if s.Name == name {
			return true
		}
	}
	return false
}
