package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadforge/quadforge/internal/resolve"
)

func TestParseNetworkSpecialMode(t *testing.T) {
	na, err := ParseNetwork("host", nil)
	require.NoError(t, err)
	assert.Equal(t, "host", na.Mode)
	assert.Equal(t, "host", na.Render())
}

func TestParseNetworkContainerMode(t *testing.T) {
	na, err := ParseNetwork("container:web", nil)
	require.NoError(t, err)
	assert.Equal(t, "container", na.Mode)
	assert.Equal(t, "web", na.Target)
	assert.Equal(t, "container:web", na.Render())
}

func TestParseNetworkResolvesSiblingUnit(t *testing.T) {
	idx := resolve.NewIndex()
	idx.Add("app.network")

	na, err := ParseNetwork("app.network", idx)
	require.NoError(t, err)
	assert.Equal(t, "systemd-app", na.Network)
}

func TestParseNetworkUnknownSiblingUnitIsError(t *testing.T) {
	idx := resolve.NewIndex()
	_, err := ParseNetwork("app.network", idx)
	require.Error(t, err)
}

func TestParseNetworkBridgeAndPastaModes(t *testing.T) {
	for _, mode := range []string{"bridge", "pasta"} {
		na, err := ParseNetwork(mode, nil)
		require.NoError(t, err)
		assert.Equal(t, mode, na.Mode)
		assert.Equal(t, mode, na.Render())
	}
}

func TestParseNetworkBridgeNameWithOptions(t *testing.T) {
	na, err := ParseNetwork("mybridge:alias=web", nil)
	require.NoError(t, err)
	assert.Equal(t, "mybridge", na.Network)
	assert.Equal(t, []string{"alias=web"}, na.Options)
}
