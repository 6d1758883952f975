// Package config provides application configuration for quadforge.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// getuid is the function used to retrieve the current user ID.
// It is a variable so tests can simulate root/non-root environments.
var getuid = os.Getuid

// Config represents the generator's runtime configuration, resolved from
// CLI flags, environment variables, and defaults.
type Config struct {
	// UserMode runs the generator against the per-user search paths and
	// service manager instead of the system one.
	UserMode bool
	// Verbose enables debug-level logging.
	Verbose bool
	// DryRun prints actions without writing output units.
	DryRun bool
	// NoKmsgLog makes the CLI log per-unit translation failures at warning
	// level instead of error level. Nothing is written to the kernel log
	// buffer either way.
	NoKmsgLog bool
	// Engine is the container engine executable invoked by ExecStart=.
	Engine string
	// OutputDir is where translated unit files are written.
	OutputDir string
}

// IsUserMode returns true if running as a non-root user (uid != 0).
func IsUserMode() bool {
	return getuid() != 0
}

// DefaultSearchPaths returns the conventional Quadlet unit directories for
// the given mode, most specific first, the way podman-system-generator
// documents them.
func DefaultSearchPaths(userMode bool) []string {
	if userMode {
		home, _ := os.UserHomeDir()
		return []string{
			filepath.Join(home, ".config/containers/systemd"),
			"/etc/containers/systemd/users",
		}
	}
	return []string{
		"/etc/containers/systemd",
		"/usr/share/containers/systemd",
	}
}

// SearchPaths returns the unit search paths to scan: the QUADLET_UNIT_DIRS
// environment variable (colon-separated, systemd $PATH style) if set,
// otherwise the conventional defaults for the given mode.
func SearchPaths(userMode bool) []string {
	v := viper.New()
	v.SetEnvPrefix("")
	_ = v.BindEnv("QUADLET_UNIT_DIRS", "QUADLET_UNIT_DIRS")
	if raw := v.GetString("QUADLET_UNIT_DIRS"); raw != "" {
		var dirs []string
		for _, p := range strings.Split(raw, ":") {
			if p != "" {
				dirs = append(dirs, p)
			}
		}
		if len(dirs) > 0 {
			return dirs
		}
	}
	return DefaultSearchPaths(userMode)
}

// DefaultEngine is the container engine assumed when none is configured.
const DefaultEngine = "podman"
