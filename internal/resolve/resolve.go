// Package resolve implements the Cross-Unit Resolver (spec component G): it
// builds a read-only index of every discovered unit during phase 1, turns a
// symbolic "stem.ext" reference into the engine's mangled resource name and
// the systemd service unit it corresponds to, and detects reference cycles
// with a directed graph, the way the teacher's dependency graph does for
// compose services.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dominikbraun/graph"
)

// Kind identifies which translator owns a unit by its file extension.
type Kind string

const (
	KindContainer Kind = "container"
	KindVolume    Kind = "volume"
	KindNetwork   Kind = "network"
	KindPod       Kind = "pod"
	KindKube      Kind = "kube"
	KindImage     Kind = "image"
	KindBuild     Kind = "build"
)

// extensions maps recognized unit-file suffixes to their Kind, mirroring
// the seven kinds this generator translates.
var extensions = map[string]Kind{
	".container": KindContainer,
	".volume":    KindVolume,
	".network":   KindNetwork,
	".pod":       KindPod,
	".kube":      KindKube,
	".image":     KindImage,
	".build":     KindBuild,
}

// KindOf returns the Kind implied by path's extension and whether it was
// recognized at all.
func KindOf(path string) (Kind, bool) {
	k, ok := extensions[filepath.Ext(path)]
	return k, ok
}

// Ref is a parsed "stem.ext" symbolic reference, as found in values like
// Network=app.network or Volume=data.volume:/data.
type Ref struct {
	Stem string
	Kind Kind
}

// ParseRef parses a bare reference such as "app.network"; ok is false if
// the extension isn't one of the seven recognized unit kinds.
func ParseRef(s string) (Ref, bool) {
	k, ok := extensions[filepath.Ext(s)]
	if !ok {
		return Ref{}, false
	}
	stem := strings.TrimSuffix(s, filepath.Ext(s))
	return Ref{Stem: stem, Kind: k}, true
}

// String renders the reference back to its "stem.ext" form.
func (r Ref) String() string {
	for ext, k := range extensions {
		if k == r.Kind {
			return r.Stem + ext
		}
	}
	return r.Stem
}

// unitKey is the Index's internal lookup key: the unit's kind and stem
// joined by '/', since stems are only unique within a kind.
func unitKey(stem string, k Kind) string { return string(k) + "/" + stem }

// Index is the read-only cross-unit registry built once in phase 1, from
// every unit file discovered across all search directories.
type Index struct {
	known map[string]Ref
	graph graph.Graph[string, string]
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		known: make(map[string]Ref),
		graph: graph.New(graph.StringHash, graph.Directed(), graph.Acyclic()),
	}
}

// Add registers a discovered unit file's existence. path is the unit's
// source path; its base name (stem + recognized extension) becomes its
// addressable name. Returns false if the extension isn't recognized.
func (idx *Index) Add(path string) bool {
	base := filepath.Base(path)
	ref, ok := ParseRef(base)
	if !ok {
		return false
	}
	key := unitKey(ref.Stem, ref.Kind)
	idx.known[key] = ref
	_ = idx.graph.AddVertex(key)
	return true
}

// UnknownUnitError reports a symbolic reference naming a unit that was
// never discovered during phase 1.
type UnknownUnitError struct {
	From Ref
	To   Ref
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("%s references unknown unit %s", e.From, e.To)
}

// CycleError reports a reference graph cycle detected while resolving
// unit dependencies.
type CycleError struct {
	Err error
}

func (e *CycleError) Error() string { return fmt.Sprintf("dependency cycle: %s", e.Err) }
func (e *CycleError) Unwrap() error { return e.Err }

// Resolve records that the unit named by from references the unit named by
// to, validating that to exists and that adding the edge doesn't introduce
// a cycle (graph.Acyclic rejects the AddEdge call itself, mirroring the
// teacher's ServiceDependencyGraph).
func (idx *Index) Resolve(from, to Ref) error {
	toKey := unitKey(to.Stem, to.Kind)
	if _, ok := idx.known[toKey]; !ok {
		return &UnknownUnitError{From: from, To: to}
	}
	fromKey := unitKey(from.Stem, from.Kind)
	if err := idx.graph.AddEdge(fromKey, toKey); err != nil {
		if err == graph.ErrEdgeCreatesCycle {
			return &CycleError{Err: err}
		}
		if err != graph.ErrEdgeAlreadyExists {
			return err
		}
	}
	return nil
}

// Has reports whether ref names a unit discovered during phase 1.
func (idx *Index) Has(ref Ref) bool {
	_, ok := idx.known[unitKey(ref.Stem, ref.Kind)]
	return ok
}

// Mangle returns the engine-level resource name and the systemd service
// unit name a reference to ref should produce. Volumes and networks get
// podman's "systemd-<stem>" convention unless the unit sets its own
// *Name= override (pass that through nameOverride); every kind's service
// unit is named "<stem>-<kind>.service", except containers, whose service
// unit is simply "<stem>.service" because the container *is* the service.
func Mangle(ref Ref, nameOverride string) (engineName, serviceUnit string) {
	if nameOverride != "" {
		engineName = nameOverride
	} else {
		switch ref.Kind {
		case KindVolume, KindNetwork:
			engineName = "systemd-" + ref.Stem
		default:
			engineName = ref.Stem
		}
	}

	if ref.Kind == KindContainer {
		serviceUnit = ref.Stem + ".service"
	} else {
		serviceUnit = fmt.Sprintf("%s-%s.service", ref.Stem, ref.Kind)
	}
	return engineName, serviceUnit
}

// templateParts splits a systemd template unit name ("foo@bar.ext") into
// its prefix and instance, grounded on podman's own unit-file naming rules.
func templateParts(filename string) (prefix, instance string, isTemplate bool) {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	parts := strings.SplitN(base, "@", 2)
	if len(parts) < 2 {
		return parts[0], "", false
	}
	return parts[0], parts[1], true
}

// DropinDirectories returns the directories searched for this unit's
// drop-in .conf files, from most to least specific, following the same
// systemd convention podman's generator implements.
func DropinDirectories(quadletFile string) []string {
	unitName, instanceName, isTemplate := templateParts(quadletFile)
	ext := filepath.Ext(quadletFile)
	dropinExt := ext + ".d"

	var dirs []string
	dirs = append(dirs, strings.TrimPrefix(dropinExt, "."))

	parts := strings.Split(unitName, "-")
	if len(parts) > 1 {
		parts = parts[:len(parts)-1]
		for i := range parts {
			prefix := strings.Join(parts[:i+1], "-") + "-"
			dirs = append(dirs, prefix+dropinExt)
			if isTemplate {
				dirs = append(dirs, prefix+"@"+dropinExt)
			}
		}
	}
	if instanceName != "" {
		dirs = append(dirs, unitName+"@"+dropinExt)
	}
	dirs = append(dirs, quadletFile+".d")

	for i, j := 0, len(dirs)-1; i < j; i, j = i+1, j-1 {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	}
	return dirs
}
