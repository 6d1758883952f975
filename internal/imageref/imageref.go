// Package imageref normalizes Image=/FromImage= directives using the same
// reference grammar `docker pull`/podman accept, so generated units always
// carry a fully-qualified, validated image reference.
package imageref

import (
	"fmt"

	"github.com/distribution/reference"
)

// Normalize parses raw as an image reference and returns its canonical
// string form, adding the "docker.io/library/" and ":latest" defaults the
// way the engine itself would when the unit doesn't spell them out
// explicitly. A bare "<stem>.image" or "<stem>.build" sibling-unit
// reference is passed through unchanged — those resolve via
// internal/resolve, not this package.
func Normalize(raw string) (string, error) {
	if IsSiblingUnitReference(raw) {
		return raw, nil
	}
	ref, err := reference.ParseDockerRef(raw)
	if err != nil {
		return "", fmt.Errorf("imageref: %q is not a valid image reference: %w", raw, err)
	}
	return ref.String(), nil
}

// IsSiblingUnitReference reports whether raw looks like a "stem.image" or
// "stem.build" reference rather than a registry image reference.
func IsSiblingUnitReference(raw string) bool {
	for _, ext := range []string{".image", ".build"} {
		if len(raw) > len(ext) && raw[len(raw)-len(ext):] == ext {
			return true
		}
	}
	return false
}
