// Package translate implements the per-kind translators (spec component
// F): turning a parsed Quadlet Unit into the systemd service unit whose
// ExecStart= invokes the container engine. Output unit serialization
// follows the teacher's ini.v1/shadow-key pattern, generalized to read
// from the generic unitfile.Unit model instead of compose types.
package translate

import (
	"bytes"
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/quadforge/quadforge/internal/unitfile"
)

// Output is a systemd unit file under construction.
type Output struct {
	Name string
	File *ini.File
	// Warnings collects the spec §7 non-fatal warnings raised while
	// building this unit (e.g. an ambiguous boolean value), in the order
	// they were found.
	Warnings []string
}

// NewOutput creates an empty output unit, allowing shadow (repeated) keys
// the way the teacher's BuildContainer/BuildVolume/BuildNetwork do.
func NewOutput(name string) *Output {
	return &Output{Name: name, File: ini.Empty(ini.LoadOptions{AllowShadows: true})}
}

func (o *Output) section(name string) *ini.Section {
	s := o.File.Section(name)
	return s
}

// Set writes a single scalar value for key, overwriting any prior value —
// used for last-wins directives like Image=/ContainerName=.
func (o *Output) Set(section, key, value string) {
	if value == "" {
		return
	}
	o.section(section).Key(key).SetValue(value)
}

// Add appends value as an additional occurrence of key, using ini.v1's
// shadow-key mechanism — used for multi-valued directives like
// Environment=, Requires=, After=. ini.v1's Section.Key auto-creates an
// empty key on first access, so the first Add for a given key becomes a
// plain SetValue and every subsequent one becomes a shadow.
func (o *Output) Add(section, key, value string) {
	if value == "" {
		return
	}
	k := o.section(section).Key(key)
	if k.Value() == "" {
		k.SetValue(value)
		return
	}
	_ = k.AddShadow(value)
}

// AddAll appends every value in values for key, in order.
func (o *Output) AddAll(section, key string, values []string) {
	for _, v := range values {
		o.Add(section, key, v)
	}
}

// AddUnitSection populates [Unit] with Description=, copies through the
// source unit's own RequiresMountsFor=/Requires=/Wants=/After= entries,
// then augments Requires=/After= with the Requires=/After= pairs the
// Cross-Unit Resolver produced for this unit's sibling-unit dependencies
// (spec §4.F: "... from the source are copied and augmented").
func (o *Output) AddUnitSection(u *unitfile.Unit, description string, requires, after []string) {
	o.Set("Unit", "Description", description)
	o.AddAll("Unit", "RequiresMountsFor", u.LookupAll("Unit", "RequiresMountsFor"))
	o.AddAll("Unit", "Requires", u.LookupAll("Unit", "Requires"))
	o.AddAll("Unit", "Wants", u.LookupAll("Unit", "Wants"))
	o.AddAll("Unit", "After", u.LookupAll("Unit", "After"))
	o.AddAll("Unit", "Requires", requires)
	o.AddAll("Unit", "After", after)
}

// AddInstallSection copies the source unit's own [Install] section
// through verbatim when present (spec §4.F: "[Install] is copied through
// if present"), otherwise falls back to podman's own user-mode vs
// system-mode default target selection.
func (o *Output) AddInstallSection(u *unitfile.Unit, userMode bool) {
	if u.HasSection("Install") {
		o.AddAll("Install", "WantedBy", u.LookupAll("Install", "WantedBy"))
		o.AddAll("Install", "RequiredBy", u.LookupAll("Install", "RequiredBy"))
		o.AddAll("Install", "Alias", u.LookupAll("Install", "Alias"))
		o.AddAll("Install", "Also", u.LookupAll("Install", "Also"))
		return
	}
	if userMode {
		o.Set("Install", "WantedBy", "default.target")
	} else {
		o.Set("Install", "WantedBy", "multi-user.target")
	}
}

// AddPassthroughSection copies every entry of the source unit's
// originalSection verbatim into an [X-<OriginalKind>] section, preserving
// the original inputs for re-invocation and debugging (spec §4.F) and
// giving unknown keys in that section somewhere to land (spec §7).
func (o *Output) AddPassthroughSection(u *unitfile.Unit, originalSection string) {
	for _, s := range u.Sections {
		if s.Name != originalSection {
			continue
		}
		for _, e := range s.Entries {
			o.Add("X-"+originalSection, e.Key, e.Value)
		}
	}
}

// WarnAmbiguousBools records a spec §7 warning on o for each of section's
// keys (among those named) whose value isn't a recognized true/false
// spelling.
func (o *Output) WarnAmbiguousBools(u *unitfile.Unit, section string, keys ...string) {
	for _, k := range u.AmbiguousBoolKeys(section, keys...) {
		o.Warnings = append(o.Warnings, fmt.Sprintf("%s: %s/%s has an ambiguous boolean value", o.Name, section, k))
	}
}

// Bytes serializes the unit file.
func (o *Output) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := o.File.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("translate: serialize %s: %w", o.Name, err)
	}
	return buf.Bytes(), nil
}

// ServiceName resolves the systemd service unit name to use for this
// unit: its section's ServiceName= override if set, otherwise the
// mangled default Mangle already computed. ServiceName= lets a unit pick
// its own service unit file name independently of the engine-level
// resource name override (ContainerName=/VolumeName=/NetworkName=), per
// the pack's quadlet constant list.
func ServiceName(u *unitfile.Unit, section, mangledDefault string) string {
	if name, ok := u.LookupLast(section, "ServiceName"); ok && name != "" {
		return name + ".service"
	}
	return mangledDefault
}

// Context carries the ambient state every per-kind translator needs:
// which container engine binary to invoke and whether this is a
// user-mode (rootless) or system-mode generation run.
type Context struct {
	EnginePath string
	UserMode   bool
}

// DefaultEnginePath is used when a Context doesn't override it.
const DefaultEnginePath = "/usr/bin/podman"
