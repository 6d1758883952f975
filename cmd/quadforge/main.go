// Command quadforge is the systemd generator binary: it discovers Quadlet
// unit files on the conventional search paths and translates each into a
// systemd service (or related) unit under the directory systemd passes on
// argv, per spec §6's CLI surface.
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
