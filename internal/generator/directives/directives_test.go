package directives

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadforge/quadforge/internal/translate"
)

func newOutput(execStart string) *translate.Output {
	o := translate.NewOutput("test.service")
	o.Set("Service", "ExecStart", execStart)
	return o
}

func TestLoadCollectsDirectiveLines(t *testing.T) {
	data := []byte("[Container]\n## assert-podman-args --name web\nImage=alpine\n## depends-on data.volume\n")
	c, err := Load("web.container", data)
	require.NoError(t, err)
	require.Len(t, c.Checks, 2)
	assert.Equal(t, []string{"assert-podman-args", "--name", "web"}, c.Checks[0])
	assert.Equal(t, []string{"depends-on", "data.volume"}, c.Checks[1])
}

func TestDependsOnAndExpectFailure(t *testing.T) {
	c := &Case{Checks: [][]string{
		{"depends-on", "data.volume"},
		{"depends-on", "app.network"},
		{"assert-failed"},
	}}
	assert.Equal(t, []string{"data.volume", "app.network"}, c.DependsOn())
	assert.True(t, c.ExpectFailure())
}

func TestEvaluateAssertPodmanArgs(t *testing.T) {
	out := newOutput("/usr/bin/podman run --name web -d alpine")
	c := &Case{Checks: [][]string{{"assert-podman-args", "--name", "web"}}}
	assert.NoError(t, c.Evaluate(out))

	c = &Case{Checks: [][]string{{"assert-podman-args", "--name", "other"}}}
	assert.Error(t, c.Evaluate(out))
}

func TestEvaluateNegatedAssertPodmanArgs(t *testing.T) {
	out := newOutput("/usr/bin/podman run --name web -d alpine")
	c := &Case{Checks: [][]string{{"!assert-podman-args", "--privileged"}}}
	assert.NoError(t, c.Evaluate(out))

	c = &Case{Checks: [][]string{{"!assert-podman-args", "--name", "web"}}}
	assert.Error(t, c.Evaluate(out))
}

func TestEvaluateAssertPodmanArgsKeyVal(t *testing.T) {
	out := newOutput("/usr/bin/podman run --opt type=tmpfs,uid=1000 alpine")
	c := &Case{Checks: [][]string{{"assert-podman-args-key-val", "--opt", ",", "uid=1000,type=tmpfs"}}}
	assert.NoError(t, c.Evaluate(out))
}

func TestEvaluateAssertPodmanArgsKeyValRegex(t *testing.T) {
	out := newOutput("/usr/bin/podman run --uidmap 0:100000:65536 alpine")
	c := &Case{Checks: [][]string{{"assert-podman-args-key-val-regex", "--uidmap", ":", `^0:\d+:\d+$`}}}
	assert.NoError(t, c.Evaluate(out))
}

func TestEvaluateAssertKeyIs(t *testing.T) {
	out := translate.NewOutput("test.service")
	out.Add("Unit", "Requires", "data-volume.service")
	out.Add("Unit", "Requires", "app-network.service")

	c := &Case{Checks: [][]string{
		{"assert-key-is", "Unit", "Requires", "data-volume.service", "app-network.service"},
	}}
	assert.NoError(t, c.Evaluate(out))

	c = &Case{Checks: [][]string{{"assert-key-is", "Unit", "Requires", "app-network.service"}}}
	assert.Error(t, c.Evaluate(out))
}

func TestUnsupportedAssertionIsError(t *testing.T) {
	out := newOutput("/usr/bin/podman run alpine")
	c := &Case{Path: "x.container", Checks: [][]string{{"assert-nonsense"}}}
	assert.Error(t, c.Evaluate(out))
}
