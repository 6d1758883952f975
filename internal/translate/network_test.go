package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkTranslatesDefaultName(t *testing.T) {
	u := parseUnit(t, "app.network", "[Network]\nDriver=bridge\nInternal=yes\n")
	o, err := Network(u, Context{}, "app", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "app-network.service", o.Name)
	execStart := o.File.Section("Service").Key("ExecStart").Value()
	assert.Contains(t, execStart, "network create")
	assert.Contains(t, execStart, "--internal")
	assert.Contains(t, execStart, "systemd-app")
}

func TestNetworkSubnetGatewayIPRange(t *testing.T) {
	u := parseUnit(t, "app.network", "[Network]\nSubnet=10.0.0.0/24\nGateway=10.0.0.1\nIPRange=10.0.0.128/25\n")
	o, err := Network(u, Context{}, "app", nil, nil)
	require.NoError(t, err)

	execStart := o.File.Section("Service").Key("ExecStart").Value()
	assert.Contains(t, execStart, "--subnet 10.0.0.0/24")
	assert.Contains(t, execStart, "--gateway 10.0.0.1")
	assert.Contains(t, execStart, "--ip-range 10.0.0.128/25")
}

func TestNetworkEmitsXNetworkPassthroughSection(t *testing.T) {
	u := parseUnit(t, "app.network", "[Network]\nDriver=bridge\n")
	o, err := Network(u, Context{}, "app", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "bridge", o.File.Section("X-Network").Key("Driver").Value())
}

func TestNetworkWarnsOnAmbiguousBoolean(t *testing.T) {
	u := parseUnit(t, "app.network", "[Network]\nIPv6=enabled\n")
	o, err := Network(u, Context{}, "app", nil, nil)
	require.NoError(t, err)
	require.Len(t, o.Warnings, 1)
	assert.Contains(t, o.Warnings[0], "Network/IPv6")
}
