package assemble

import (
	"fmt"
	"strings"

	"github.com/quadforge/quadforge/internal/resolve"
)

// NetworkAttachment is one normalized Network= directive: either a special
// mode ("host", "none", "slirp4netns", "container:<name>") or an attachment
// to a named network, optionally a sibling .network unit.
type NetworkAttachment struct {
	Mode    string // "" (named network), "container", "ns", or a specialNetworkModes key
	Target  string // container name or network namespace path, if Mode needs one
	Network string // engine-level network name, if attaching to one
	Options []string
}

var specialNetworkModes = map[string]bool{
	"host": true, "none": true, "private": true, "slirp4netns": true,
	"bridge": true, "pasta": true,
}

// ParseNetwork normalizes a Network= value, resolving a sibling ".network"
// unit reference to its mangled engine name via index.
func ParseNetwork(spec string, index *resolve.Index) (NetworkAttachment, error) {
	fields := strings.Split(spec, ":")
	mode := fields[0]

	if specialNetworkModes[mode] {
		return NetworkAttachment{Mode: mode}, nil
	}
	if mode == "container" || mode == "ns" {
		if len(fields) < 2 || fields[1] == "" {
			return NetworkAttachment{}, fmt.Errorf("assemble: Network=%s requires a target", spec)
		}
		return NetworkAttachment{Mode: mode, Target: fields[1]}, nil
	}

	// Anything else names a network (bridge name, or a sibling .network
	// unit), with optional ":key=value" options trailing it.
	name := fields[0]
	opts := fields[1:]

	if ref, ok := resolve.ParseRef(name); ok && ref.Kind == resolve.KindNetwork {
		if index != nil && !index.Has(ref) {
			return NetworkAttachment{}, fmt.Errorf("assemble: Network=%s names an unknown network unit", spec)
		}
		engineName, _ := resolve.Mangle(ref, "")
		name = engineName
	}

	return NetworkAttachment{Network: name, Options: opts}, nil
}

// Render produces the --network flag value for na.
func (na NetworkAttachment) Render() string {
	switch {
	case na.Mode == "container" || na.Mode == "ns":
		return na.Mode + ":" + na.Target
	case na.Mode != "":
		return na.Mode
	default:
		parts := append([]string{na.Network}, na.Options...)
		return strings.Join(parts, ":")
	}
}
