// Package fsio provides the filesystem-backed UnitSource and UnitSink
// generator uses outside of tests: walking the Quadlet search directories
// for recognized unit files, and writing translated systemd units to the
// output directory.
package fsio

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/quadforge/quadforge/internal/generator"
	"github.com/quadforge/quadforge/internal/resolve"
)

// DirSource discovers unit files across one or more search directories,
// most specific first. Later directories never override a stem+kind a
// more specific directory already provided — mirroring podman's own
// unit-directory precedence.
type DirSource struct {
	Dirs []string
	Log  *slog.Logger
}

// Discover walks each directory in Dirs, returning every file whose
// extension resolve.KindOf recognizes. A directory that doesn't exist is
// skipped rather than treated as fatal, since only some of the
// conventional search paths need be present on a given host.
func (s DirSource) Discover() ([]generator.SourceUnit, error) {
	seen := make(map[string]bool)
	var units []generator.SourceUnit

	for _, dir := range s.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("fsio: read %s: %w", dir, err)
		}

		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := resolve.KindOf(e.Name()); !ok {
				continue
			}
			if seen[e.Name()] {
				continue
			}
			path := filepath.Join(dir, e.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("fsio: read %s: %w", path, err)
			}
			data, err = s.applyDropins(dir, e.Name(), data)
			if err != nil {
				return nil, err
			}
			seen[e.Name()] = true
			units = append(units, generator.SourceUnit{Path: path, Data: data})
		}
	}

	return units, nil
}

// applyDropins appends the contents of name's "*.d/*.conf" drop-in
// directories (resolve.DropinDirectories, spec's drop-in-directories
// supplemental feature) onto base, least specific first so a more specific
// drop-in's entries sort later and therefore win under the unit model's
// last-wins/LookupLast semantics, the same override order systemd itself
// applies. A missing drop-in directory is not an error — most units have
// none.
func (s DirSource) applyDropins(dir, name string, base []byte) ([]byte, error) {
	dropinDirs := resolve.DropinDirectories(name)

	buf := bytes.NewBuffer(base)
	for i := len(dropinDirs) - 1; i >= 0; i-- {
		confDir := filepath.Join(dir, dropinDirs[i])
		entries, err := os.ReadDir(confDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("fsio: read drop-in dir %s: %w", confDir, err)
		}

		var confNames []string
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".conf" {
				confNames = append(confNames, e.Name())
			}
		}
		sort.Strings(confNames)

		for _, cn := range confNames {
			confPath := filepath.Join(confDir, cn)
			confData, err := os.ReadFile(confPath)
			if err != nil {
				return nil, fmt.Errorf("fsio: read drop-in %s: %w", confPath, err)
			}
			if s.Log != nil {
				s.Log.Debug("applying drop-in", "unit", name, "file", confPath)
			}
			buf.WriteByte('\n')
			buf.Write(confData)
		}
	}
	return buf.Bytes(), nil
}

// DirSink writes translated systemd units into a single output directory,
// creating it first if necessary.
type DirSink struct {
	Dir    string
	DryRun bool
	Log    *slog.Logger
}

// Write persists data under name inside the sink's directory. In DryRun
// mode nothing is written to disk; the write is only logged.
func (s DirSink) Write(name string, data []byte) error {
	if s.Log != nil {
		s.Log.Debug("writing unit", "name", name, "dir", s.Dir, "dryRun", s.DryRun)
	}
	if s.DryRun {
		return nil
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("fsio: create output dir %s: %w", s.Dir, err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("fsio: write %s: %w", path, err)
	}
	return nil
}

// Clean removes every regular file in the sink's directory whose name
// isn't in keep, so a re-run of the generator doesn't leave stale units
// from a since-removed or since-renamed source unit behind. Matches the
// teacher's generate-then-prune pattern for its own output directory.
func Clean(dir string, keep map[string]bool) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("fsio: read %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || keep[e.Name()] {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("fsio: remove stale unit %s: %w", path, err)
		}
	}
	return nil
}
