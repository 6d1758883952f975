package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCommandLineQuotesArgsWithSpaces(t *testing.T) {
	line := BuildCommandLine("/usr/bin/podman", []string{"run", "--name", "web", "sh", "-c", "sleep infinity"})
	assert.Equal(t, `/usr/bin/podman run --name web sh -c "sleep infinity"`, line)
}

func TestBuildCommandLineLeavesPlainArgsBare(t *testing.T) {
	line := BuildCommandLine("/usr/bin/podman", []string{"ps"})
	assert.Equal(t, "/usr/bin/podman ps", line)
}
