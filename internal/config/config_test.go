package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUserMode(t *testing.T) {
	orig := getuid
	defer func() { getuid = orig }()

	getuid = func() int { return 0 }
	assert.False(t, IsUserMode())

	getuid = func() int { return 1000 }
	assert.True(t, IsUserMode())
}

func TestDefaultSearchPaths(t *testing.T) {
	sys := DefaultSearchPaths(false)
	assert.Contains(t, sys, "/etc/containers/systemd")

	user := DefaultSearchPaths(true)
	assert.NotEmpty(t, user)
	assert.Contains(t, user[1], "/etc/containers/systemd/users")
}

func TestSearchPathsFallsBackToDefaults(t *testing.T) {
	t.Setenv("QUADLET_UNIT_DIRS", "")
	paths := SearchPaths(false)
	assert.Equal(t, DefaultSearchPaths(false), paths)
}

func TestSearchPathsHonorsEnv(t *testing.T) {
	t.Setenv("QUADLET_UNIT_DIRS", "/a/b:/c/d")
	paths := SearchPaths(false)
	assert.Equal(t, []string{"/a/b", "/c/d"}, paths)
}
