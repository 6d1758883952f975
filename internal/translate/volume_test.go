package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVolumeTranslatesDefaultName(t *testing.T) {
	u := parseUnit(t, "data.volume", "[Volume]\nDriver=local\n")
	o, err := Volume(u, Context{}, "data", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "data-volume.service", o.Name)
	execStart := o.File.Section("Service").Key("ExecStart").Value()
	assert.Contains(t, execStart, "volume create")
	assert.Contains(t, execStart, "--driver local")
	assert.Contains(t, execStart, "systemd-data")
}

func TestVolumeServiceNameOverride(t *testing.T) {
	u := parseUnit(t, "data.volume", "[Volume]\nServiceName=custom-data\n")
	o, err := Volume(u, Context{}, "data", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom-data.service", o.Name)
}

func TestVolumeHonorsVolumeNameOverride(t *testing.T) {
	u := parseUnit(t, "data.volume", "[Volume]\nVolumeName=custom\n")
	o, err := Volume(u, Context{}, "data", nil, nil)
	require.NoError(t, err)
	execStart := o.File.Section("Service").Key("ExecStart").Value()
	assert.Contains(t, execStart, "custom")
}

func TestVolumeDriverOptsMapToOptFlags(t *testing.T) {
	u := parseUnit(t, "data.volume", "[Volume]\nType=tmpfs\nDevice=tmpfs\n")
	o, err := Volume(u, Context{}, "data", nil, nil)
	require.NoError(t, err)
	execStart := o.File.Section("Service").Key("ExecStart").Value()
	assert.Contains(t, execStart, "--opt type=tmpfs")
	assert.Contains(t, execStart, "--opt device=tmpfs")
}
