package fsio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSourceDiscoversRecognizedExtensionsOnly(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "web.container", "[Container]\n")
	write(t, dir, "data.volume", "[Volume]\n")
	write(t, dir, "README.md", "not a unit")

	src := DirSource{Dirs: []string{dir}}
	units, err := src.Discover()
	require.NoError(t, err)
	require.Len(t, units, 2)

	names := map[string]bool{}
	for _, u := range units {
		names[filepath.Base(u.Path)] = true
	}
	assert.True(t, names["web.container"])
	assert.True(t, names["data.volume"])
}

func TestDirSourceMoreSpecificDirWins(t *testing.T) {
	userDir := t.TempDir()
	systemDir := t.TempDir()
	write(t, userDir, "web.container", "[Container]\nImage=from-user\n")
	write(t, systemDir, "web.container", "[Container]\nImage=from-system\n")

	src := DirSource{Dirs: []string{userDir, systemDir}}
	units, err := src.Discover()
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Contains(t, string(units[0].Data), "from-user")
}

func TestDirSourceAppliesDropins(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "web.container", "[Container]\nImage=base\n")
	dropinDir := filepath.Join(dir, "web.container.d")
	require.NoError(t, os.MkdirAll(dropinDir, 0o755))
	write(t, dropinDir, "10-override.conf", "[Container]\nImage=overridden\n")

	src := DirSource{Dirs: []string{dir}}
	units, err := src.Discover()
	require.NoError(t, err)
	require.Len(t, units, 1)

	data := string(units[0].Data)
	assert.Contains(t, data, "Image=base")
	assert.Contains(t, data, "Image=overridden")
	// The drop-in's entry must follow the base file's so LookupLast picks
	// it up as the effective value.
	assert.Greater(t, strings.Index(data, "Image=overridden"), strings.Index(data, "Image=base"))
}

func TestDirSourceIgnoresMissingDropinDir(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "web.container", "[Container]\nImage=base\n")

	src := DirSource{Dirs: []string{dir}}
	units, err := src.Discover()
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "[Container]\nImage=base\n", string(units[0].Data))
}

func TestDirSourceSkipsMissingDirectory(t *testing.T) {
	src := DirSource{Dirs: []string{filepath.Join(t.TempDir(), "nope")}}
	units, err := src.Discover()
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestDirSinkWritesFile(t *testing.T) {
	dir := t.TempDir()
	sink := DirSink{Dir: dir}
	require.NoError(t, sink.Write("web.service", []byte("[Service]\n")))

	data, err := os.ReadFile(filepath.Join(dir, "web.service"))
	require.NoError(t, err)
	assert.Equal(t, "[Service]\n", string(data))
}

func TestDirSinkDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	sink := DirSink{Dir: dir, DryRun: true}
	require.NoError(t, sink.Write("web.service", []byte("[Service]\n")))

	_, err := os.ReadFile(filepath.Join(dir, "web.service"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanRemovesStaleUnitsOnly(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "keep.service", "[Service]\n")
	write(t, dir, "stale.service", "[Service]\n")

	require.NoError(t, Clean(dir, map[string]bool{"keep.service": true}))

	_, err := os.ReadFile(filepath.Join(dir, "keep.service"))
	require.NoError(t, err)
	_, err = os.ReadFile(filepath.Join(dir, "stale.service"))
	assert.True(t, os.IsNotExist(err))
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
