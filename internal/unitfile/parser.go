package unitfile

import "strings"

// Parse turns the raw bytes of a unit file into a Unit (spec component A
// feeding component B). Values are stored exactly as written, including any
// quoting and escape sequences — resolving those is the Value Splitter's
// job (internal/argsplit), not the parser's, so that a value which is never
// split (e.g. a scalar like Image=) round-trips byte for byte.
func Parse(path string, data []byte) (*Unit, error) {
	lines, err := foldLines(path, data)
	if err != nil {
		return nil, err
	}

	u := NewUnit(path)
	var current *Section

	for _, line := range lines {
		trimmed := strings.TrimSpace(line.text)
		if trimmed == "" {
			continue
		}

		if trimmed[0] == '[' {
			name, err := parseSectionHeader(path, line.startLine, trimmed)
			if err != nil {
				return nil, err
			}
			current = u.AddSection(name)
			current.Comments = line.comments
			continue
		}

		if current == nil {
			return nil, newParseError(path, line.startLine, KindEntryOutsideSection,
				"entry %q appears before any section header", trimmed)
		}

		key, value, err := parseEntry(path, line.startLine, line.text)
		if err != nil {
			return nil, err
		}
		u.appendWithComments(current.Name, key, value, line.comments)
	}

	return u, nil
}

func parseSectionHeader(path string, lineNo int, trimmed string) (string, error) {
	if !strings.HasSuffix(trimmed, "]") || len(trimmed) < 2 {
		return "", newParseError(path, lineNo, KindMalformedSectionHeader,
			"%q is not a well-formed [Section] header", trimmed)
	}
	name := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	if name == "" {
		return "", newParseError(path, lineNo, KindMalformedSectionHeader, "section header names no section")
	}
	return name, nil
}

// parseEntry splits a "Key = Value" line on the first '=' outside the key.
// Both the key and the value are trimmed of surrounding whitespace.
func parseEntry(path string, lineNo int, text string) (key, value string, err error) {
	idx := strings.IndexByte(text, '=')
	if idx < 0 {
		return "", "", newParseError(path, lineNo, KindMissingEquals,
			"%q has no '=' separator", strings.TrimSpace(text))
	}
	key = strings.TrimSpace(text[:idx])
	if key == "" {
		return "", "", newParseError(path, lineNo, KindMissingEquals, "entry has an empty key")
	}
	value = strings.TrimSpace(text[idx+1:])
	return key, value, nil
}
