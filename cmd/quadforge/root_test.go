package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRoot() *cobra.Command {
	root := &cobra.Command{
		Use:  "quadforge [flags] <output-dir>",
		Args: cobra.ExactArgs(1),
		RunE: runGenerate,
	}
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "")
	root.Flags().BoolVar(&userMode, "user", false, "")
	root.Flags().BoolVar(&noKmsgLog, "no-kmsg-log", false, "")
	root.Flags().BoolVar(&dryRun, "dryrun", false, "")
	root.Flags().StringVar(&engine, "engine", "podman", "")
	root.Flags().StringVar(&outputFmt, "output", "text", "")
	root.Flags().StringSliceVar(&searchPaths, "search-path", nil, "")
	return root
}

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := newTestRoot()

	userFlag := cmd.Flags().Lookup("user")
	require.NotNil(t, userFlag)
	assert.Equal(t, "false", userFlag.DefValue)

	verboseFlag := cmd.Flags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "false", verboseFlag.DefValue)

	dryrunFlag := cmd.Flags().Lookup("dryrun")
	require.NotNil(t, dryrunFlag)
	assert.Equal(t, "false", dryrunFlag.DefValue)

	engineFlag := cmd.Flags().Lookup("engine")
	require.NotNil(t, engineFlag)
	assert.Equal(t, "podman", engineFlag.DefValue)

	outputFlag := cmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "text", outputFlag.DefValue)
}

func TestRootCommandRequiresOutputDir(t *testing.T) {
	cmd := newTestRoot()
	cmd.SetArgs([]string{})
	err := cmd.Args(cmd, []string{})
	assert.Error(t, err)
}

func TestResolveEnginePath(t *testing.T) {
	assert.Equal(t, "/usr/bin/podman", resolveEnginePath("podman"))
	assert.Equal(t, "/usr/bin/podman", resolveEnginePath(""))
	assert.Equal(t, "/usr/local/bin/docker", resolveEnginePath("/usr/local/bin/docker"))
}

func TestUnitObjectPath(t *testing.T) {
	path := unitObjectPath("app.service")
	assert.Equal(t, "/org/freedesktop/systemd1/unit/app_2eservice", path)
}
