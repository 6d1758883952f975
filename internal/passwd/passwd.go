// Package passwd resolves the textual User=/Group=/HostUser=/HostGroup=
// directives (which may name a user/group or a bare numeric id) to the
// uid/gid the ID-Map Computer (internal/idmap) needs, grounded on the
// standard library's os/user the way the teacher resolves local accounts.
package passwd

import (
	"fmt"
	"os/user"
	"strconv"
)

// Resolver looks up numeric ids for user/group names. Production code uses
// osResolver (backed by os/user); tests supply a stub so id-map tests don't
// depend on the ambient passwd database.
type Resolver interface {
	LookupUID(name string) (uint32, error)
	LookupGID(name string) (uint32, error)
}

// System is the Resolver that consults the host's user/group databases.
var System Resolver = osResolver{}

type osResolver struct{}

func (osResolver) LookupUID(name string) (uint32, error) {
	if n, err := ParseNumericID(name); err == nil {
		return n, nil
	}
	u, err := user.Lookup(name)
	if err != nil {
		return 0, fmt.Errorf("resolve user %q: %w", name, err)
	}
	id, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("user %q has non-numeric uid %q: %w", name, u.Uid, err)
	}
	return uint32(id), nil
}

func (osResolver) LookupGID(name string) (uint32, error) {
	if n, err := ParseNumericID(name); err == nil {
		return n, nil
	}
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, fmt.Errorf("resolve group %q: %w", name, err)
	}
	id, err := strconv.ParseUint(g.Gid, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("group %q has non-numeric gid %q: %w", name, g.Gid, err)
	}
	return uint32(id), nil
}

// ParseNumericID returns s parsed as a bare uid/gid, letting callers skip
// the passwd/group database lookup entirely when a directive already names
// a number, as User=1000 does.
func ParseNumericID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
