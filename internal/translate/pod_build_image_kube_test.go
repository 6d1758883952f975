package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadforge/quadforge/internal/resolve"
)

func TestPodTranslatesBasicUnit(t *testing.T) {
	u := parseUnit(t, "app.pod", "[Pod]\nPublishPort=8080:80\n")
	o, err := Pod(u, Context{}, resolve.NewIndex(), "app", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "app-pod.service", o.Name)
	assert.Contains(t, o.File.Section("Service").Key("ExecStart").Value(), "--publish 8080:80")
}

func TestImageTranslatesPullService(t *testing.T) {
	u := parseUnit(t, "app.image", "[Image]\nImage=docker.io/library/alpine:3.20\n")
	o, err := Image(u, Context{}, "app", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "app-image.service", o.Name)
	assert.Contains(t, o.File.Section("Service").Key("ExecStart").Value(), "image pull")
}

func TestBuildTranslatesBuildService(t *testing.T) {
	u := parseUnit(t, "app.build", "[Build]\nImageTag=myapp:latest\n")
	o, err := Build(u, Context{}, "app", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "app-build.service", o.Name)
	assert.Contains(t, o.File.Section("Service").Key("ExecStart").Value(), "myapp:latest")
}

func TestKubeTranslatesKubePlayService(t *testing.T) {
	u := parseUnit(t, "app.kube", "[Kube]\nYaml=app.yaml\n")
	o, err := Kube(u, Context{}, "app", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "app-kube.service", o.Name)
	assert.Contains(t, o.File.Section("Service").Key("ExecStart").Value(), "kube play")
}
