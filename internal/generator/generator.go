// Package generator orchestrates the two-phase translation run (spec §5):
// phase 1 parses every discovered unit and builds the read-only cross-unit
// index; phase 2 translates each unit in deterministic lexicographic path
// order, collecting per-unit failures without aborting the run.
package generator

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/translate"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// SourceUnit is one discovered quadlet unit file, keyed by its source path.
type SourceUnit struct {
	Path string
	Data []byte
}

// UnitSource discovers unit files across a generator's search directories.
type UnitSource interface {
	Discover() ([]SourceUnit, error)
}

// UnitSink persists a generated systemd unit.
type UnitSink interface {
	Write(name string, data []byte) error
}

// UnitResult records one unit that failed to translate, and why.
type UnitResult struct {
	Stem string
	Kind resolve.Kind
	Err  error
}

// Report summarizes a full generation run.
type Report struct {
	Generated []string
	Failed    []UnitResult
	// Warnings collects every unit's non-fatal warnings, in run order.
	// Only ambiguous boolean values are reported; unknown and deprecated
	// keys produce no warning.
	Warnings []string
}

// Generate runs phase 1 (parse + index) and phase 2 (translate + write)
// over every unit UnitSource discovers, writing successful translations to
// sink. A fatal error in one unit never stops the rest — spec §5's
// partial-failure semantics — so Report.Failed may be non-empty even when
// Generate itself returns a nil error.
func Generate(src UnitSource, sink UnitSink, ctx translate.Context) (*Report, error) {
	units, err := src.Discover()
	if err != nil {
		return nil, fmt.Errorf("generator: discover units: %w", err)
	}

	sort.Slice(units, func(i, j int) bool { return units[i].Path < units[j].Path })

	parsed := make(map[string]*unitfile.Unit, len(units))
	idx := resolve.NewIndex()
	report := &Report{}

	for _, su := range units {
		k, ok := resolve.KindOf(su.Path)
		if !ok {
			continue
		}
		stem := stemOf(su.Path)

		u, err := unitfile.Parse(su.Path, su.Data)
		if err != nil {
			report.Failed = append(report.Failed, UnitResult{Stem: stem, Kind: k, Err: err})
			continue
		}
		parsed[su.Path] = u
		idx.Add(filepath.Base(su.Path))
	}

	for _, su := range units {
		k, ok := resolve.KindOf(su.Path)
		if !ok {
			continue
		}
		u, ok := parsed[su.Path]
		if !ok {
			continue // already recorded as a phase-1 failure
		}
		stem := stemOf(su.Path)
		quadletDir := filepath.Dir(su.Path)

		requires, after, err := dependenciesOf(u, k, stem, idx)
		if err != nil {
			report.Failed = append(report.Failed, UnitResult{Stem: stem, Kind: k, Err: err})
			continue
		}

		out, err := translateOne(u, k, ctx, idx, quadletDir, stem, requires, after)
		if err != nil {
			report.Failed = append(report.Failed, UnitResult{Stem: stem, Kind: k, Err: err})
			continue
		}

		report.Warnings = append(report.Warnings, out.Warnings...)

		data, err := out.Bytes()
		if err != nil {
			report.Failed = append(report.Failed, UnitResult{Stem: stem, Kind: k, Err: err})
			continue
		}
		if err := sink.Write(out.Name, data); err != nil {
			report.Failed = append(report.Failed, UnitResult{Stem: stem, Kind: k, Err: err})
			continue
		}
		report.Generated = append(report.Generated, out.Name)
	}

	return report, nil
}

func stemOf(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func translateOne(u *unitfile.Unit, k resolve.Kind, ctx translate.Context, idx *resolve.Index, quadletDir, stem string, requires, after []string) (*translate.Output, error) {
	switch k {
	case resolve.KindContainer:
		return translate.Container(u, ctx, idx, quadletDir, stem, requires, after)
	case resolve.KindVolume:
		return translate.Volume(u, ctx, stem, requires, after)
	case resolve.KindNetwork:
		return translate.Network(u, ctx, stem, requires, after)
	case resolve.KindPod:
		return translate.Pod(u, ctx, idx, stem, requires, after)
	case resolve.KindImage:
		return translate.Image(u, ctx, stem, requires, after)
	case resolve.KindBuild:
		return translate.Build(u, ctx, stem, requires, after)
	case resolve.KindKube:
		return translate.Kube(u, ctx, stem, requires, after)
	default:
		return nil, fmt.Errorf("generator: unrecognized unit kind %q", k)
	}
}

// dependenciesOf walks the references a unit makes to sibling units
// (Network=, Volume=/Mount=, Pod=, Image=) and records them in idx,
// returning the systemd Requires=/After= unit names to wire into the
// translated output's [Unit] section.
func dependenciesOf(u *unitfile.Unit, k resolve.Kind, stem string, idx *resolve.Index) (requires, after []string, err error) {
	from := resolve.Ref{Stem: stem, Kind: k}
	seen := make(map[string]bool)

	addRef := func(raw string) error {
		ref, ok := resolve.ParseRef(raw)
		if !ok {
			return nil
		}
		if err := idx.Resolve(from, ref); err != nil {
			return err
		}
		_, serviceUnit := resolve.Mangle(ref, "")
		if !seen[serviceUnit] {
			seen[serviceUnit] = true
			requires = append(requires, serviceUnit)
			after = append(after, serviceUnit)
		}
		return nil
	}

	if k == resolve.KindContainer {
		for _, raw := range u.LookupAll("Container", "Network") {
			if err := addRef(strings.SplitN(raw, ":", 2)[0]); err != nil {
				return nil, nil, err
			}
		}
		for _, raw := range u.LookupAll("Container", "Volume") {
			if err := addRef(strings.SplitN(raw, ":", 2)[0]); err != nil {
				return nil, nil, err
			}
		}
		for _, raw := range u.LookupAll("Container", "Mount") {
			parts, perr := splitMountSource(raw)
			if perr == nil && parts != "" {
				if err := addRef(parts); err != nil {
					return nil, nil, err
				}
			}
		}
		if image, ok := u.LookupLast("Container", "Image"); ok {
			if err := addRef(image); err != nil {
				return nil, nil, err
			}
		}
		if pod, ok := u.LookupLast("Container", "Pod"); ok {
			if err := addRef(pod); err != nil {
				return nil, nil, err
			}
		}
	}

	if len(after) > 0 {
		after = append([]string{"network-online.target"}, after...)
	}

	return requires, after, nil
}

func splitMountSource(spec string) (string, error) {
	for _, field := range strings.Split(spec, ",") {
		key, val, ok := strings.Cut(field, "=")
		if ok && (strings.TrimSpace(key) == "source" || strings.TrimSpace(key) == "src") {
			return strings.TrimSpace(val), nil
		}
	}
	return "", nil
}
