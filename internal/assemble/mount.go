// Package assemble implements the Mount/Port/Net Assembler (spec component
// E): it turns the CSV-flavored Mount=, PublishPort= and Network=
// directives into the flags the ExecStart= translator hands to the
// container engine, resolving sibling .volume/.image unit references along
// the way.
package assemble

import (
	"fmt"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/quadforge/quadforge/internal/resolve"
)

// MountType enumerates the kinds of bind this generator recognizes in a
// Mount= directive.
type MountType string

const (
	MountBind   MountType = "bind"
	MountVolume MountType = "volume"
	MountImage  MountType = "image"
	MountTmpfs  MountType = "tmpfs"
	MountDevpts MountType = "devpts"
)

// Mount is a normalized mount specification ready to be rendered as a
// --mount flag.
type Mount struct {
	Type        MountType
	Source      string
	Destination string
	Options     []string // every other key=value pair, order preserved
}

// ParseMountParts splits a Mount= value into its comma-separated fields,
// the way podman's own --mount flag does. A field wrapped in double quotes
// escapes comma-splitting for whatever it contains — unlike encoding/csv,
// the quotes themselves are kept as part of the field rather than
// stripped, since such a field is passed through to the rendered --mount
// flag unrenamed and still quoted.
func ParseMountParts(spec string) ([]string, error) {
	var parts []string
	var buf strings.Builder
	inQuotes := false
	for i := 0; i < len(spec); i++ {
		c := spec[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			buf.WriteByte(c)
		case c == ',' && !inQuotes:
			parts = append(parts, buf.String())
			buf.Reset()
		default:
			buf.WriteByte(c)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("assemble: mount %q has an unterminated quote", spec)
	}
	parts = append(parts, buf.String())
	return parts, nil
}

// isQuotedMountField reports whether part is a whole field wrapped in
// double quotes, which ParseMount passes through untouched rather than
// splitting on '=' and renaming src/dst/ro like a normal key=value field.
func isQuotedMountField(part string) bool {
	return len(part) >= 2 && part[0] == '"' && part[len(part)-1] == '"'
}

// ParseMount normalizes a single Mount= directive. quadletDir is the
// directory the unit file lives in, used to resolve relative bind-mount
// sources safely. index, when non-nil, is consulted to resolve a source
// naming a sibling ".volume" or ".image" unit to its mangled engine name.
func ParseMount(spec, quadletDir string, index *resolve.Index) (Mount, error) {
	parts, err := ParseMountParts(spec)
	if err != nil {
		return Mount{}, err
	}

	m := Mount{Type: MountBind}
	for _, part := range parts {
		if isQuotedMountField(part) {
			m.Options = append(m.Options, part)
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)

		switch key {
		case "type":
			m.Type = MountType(val)
		case "source", "src":
			if !hasVal {
				return Mount{}, fmt.Errorf("assemble: mount %q has an empty source", spec)
			}
			m.Source = val
		case "destination", "dst", "target":
			if !hasVal {
				return Mount{}, fmt.Errorf("assemble: mount %q has an empty destination", spec)
			}
			m.Destination = val
		case "ro":
			if hasVal {
				m.Options = append(m.Options, "ro="+val)
			} else {
				m.Options = append(m.Options, "ro=true")
			}
		default:
			m.Options = append(m.Options, part)
		}
	}

	if err := resolveMountSource(&m, quadletDir, index); err != nil {
		return Mount{}, err
	}
	return m, nil
}

// resolveMountSource rewrites a source that names a sibling .volume or
// .image unit to its mangled engine-level name, and resolves a relative
// bind-mount source safely within quadletDir, the way podman does for
// Mount=type=bind,source=./data.
func resolveMountSource(m *Mount, quadletDir string, index *resolve.Index) error {
	if m.Source == "" {
		return nil
	}

	if ref, ok := resolve.ParseRef(m.Source); ok {
		switch {
		case m.Type == MountVolume && ref.Kind == resolve.KindVolume:
			if index != nil && !index.Has(ref) {
				return fmt.Errorf("assemble: mount source %q names an unknown volume unit", m.Source)
			}
			engineName, _ := resolve.Mangle(ref, "")
			m.Source = engineName
			return nil
		case m.Type == MountImage && ref.Kind == resolve.KindImage:
			if index != nil && !index.Has(ref) {
				return fmt.Errorf("assemble: mount source %q names an unknown image unit", m.Source)
			}
			engineName, _ := resolve.Mangle(ref, "")
			m.Source = engineName
			return nil
		}
	}

	if m.Type == MountBind && !strings.HasPrefix(m.Source, "/") {
		resolved, err := securejoin.SecureJoin(quadletDir, m.Source)
		if err != nil {
			return fmt.Errorf("assemble: resolve relative bind source %q: %w", m.Source, err)
		}
		m.Source = resolved
	}
	return nil
}

// Render produces the comma-separated --mount flag value for m, with keys
// in a stable, canonical order so generated units are reproducible.
func (m Mount) Render() string {
	var parts []string
	parts = append(parts, "type="+string(m.Type))
	if m.Source != "" {
		parts = append(parts, "source="+m.Source)
	}
	if m.Destination != "" {
		parts = append(parts, "destination="+m.Destination)
	}
	parts = append(parts, m.Options...)
	return strings.Join(parts, ",")
}
