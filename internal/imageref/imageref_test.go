package imageref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAddsDefaults(t *testing.T) {
	ref, err := Normalize("alpine")
	require.NoError(t, err)
	assert.Equal(t, "docker.io/library/alpine:latest", ref)
}

func TestNormalizeKeepsExplicitTag(t *testing.T) {
	ref, err := Normalize("docker.io/library/alpine:3.20")
	require.NoError(t, err)
	assert.Equal(t, "docker.io/library/alpine:3.20", ref)
}

func TestNormalizeRejectsInvalidReference(t *testing.T) {
	_, err := Normalize("UPPERCASE_NOT_ALLOWED")
	require.Error(t, err)
}

func TestIsSiblingUnitReference(t *testing.T) {
	assert.True(t, IsSiblingUnitReference("app.image"))
	assert.True(t, IsSiblingUnitReference("app.build"))
	assert.False(t, IsSiblingUnitReference("docker.io/library/alpine:latest"))
}
