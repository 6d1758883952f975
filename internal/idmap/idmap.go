// Package idmap implements the ID-Map Computer (spec component D): turning
// a unit's User=/Group=/HostUser=/HostGroup=/RemapUsers= directives into the
// concrete uid/gid mapping rows passed to the container engine's
// --uidmap/--gidmap flags.
package idmap

import (
	"fmt"
	"math"
	"sort"
)

// Row is one contiguous uid/gid mapping range: Count consecutive container
// ids starting at ContainerID map to Count consecutive host ids starting at
// HostID, mirroring the three-field rows newuidmap/newgidmap accept.
type Row struct {
	ContainerID uint32
	HostID      uint32
	Count       uint32
}

// maxCount is the number of ids in the full 32-bit id space; it doesn't fit
// in a uint32 itself, so it is tracked as an int64/uint64 internally.
const maxCount = uint64(math.MaxUint32) + 1

// Config describes how a unit wants its uid (or gid) space remapped.
type Config struct {
	// Mode is "yes" for a full surjective container->host remap (every
	// container id gets a host id, per RemapUsers=yes), or "no" for no
	// remap unless HostUser/HostGroup narrows it to a single swapped id.
	Mode string
	// HostIDStart is the first host id available for the bulk of the
	// range under Mode "yes" — typically the start of a subuid/subgid
	// allocation (e.g. 100000). Required when Mode is "yes".
	HostIDStart uint32
	// UserID is the container-side id (User=/Group=) that the remap is
	// built around: under Mode "yes" it's the id that lands on host 0;
	// under Mode "no" with HostID set it's the id that swaps with HostID.
	// Zero (its default) means the container runs as its own id 0, the
	// historical behavior when User=/Group= isn't set.
	UserID uint32
	// HostID, when non-nil, is the single host id (HostUser=/HostGroup=)
	// that should be swapped with UserID under Mode "no".
	HostID *uint32
}

// BadRangeError reports two id-map rows whose container or host ranges
// overlap, or a row whose Count would run past the end of the id space.
type BadRangeError struct {
	A, B Row
	Why  string
}

func (e *BadRangeError) Error() string {
	return fmt.Sprintf("id-map rows %+v and %+v overlap: %s", e.A, e.B, e.Why)
}

// Compute produces the mapping rows for cfg, used identically for uid and
// gid spaces — ComputeUIDMap and ComputeGIDMap are thin, self-documenting
// wrappers over this shared algorithm.
func Compute(cfg Config) ([]Row, error) {
	var rows []Row

	switch cfg.Mode {
	case "yes":
		if cfg.HostIDStart == 0 {
			return nil, fmt.Errorf("idmap: RemapUsers=yes requires a non-zero host id range start")
		}
		rows = computeFullRemap(cfg.UserID, cfg.HostIDStart)

	case "no":
		if cfg.HostID == nil || *cfg.HostID == 0 {
			// No remap at all: identity across the whole space.
			rows = append(rows, Row{ContainerID: 0, HostID: 0, Count: uint32(maxCount - 1)})
			break
		}
		rows = computeHostUserSwap(cfg.UserID, *cfg.HostID)

	default:
		return nil, fmt.Errorf("idmap: unrecognized mode %q", cfg.Mode)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].ContainerID < rows[j].ContainerID })

	if err := Validate(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// computeFullRemap implements spec's mode-"yes" algorithm: container id
// user lands on host 0 (root stays root inside the container's own
// namespace), host 0 is never reachable any other way, and the host range
// starting at hostIDStart fills the rest of the container space around
// user — the lowest available ids below user, the rest above.
func computeFullRemap(user, hostIDStart uint32) []Row {
	var rows []Row
	if user > 0 {
		rows = append(rows, Row{ContainerID: 0, HostID: hostIDStart, Count: user})
	}
	rows = append(rows, Row{ContainerID: user, HostID: 0, Count: 1})
	above := uint32(maxCount - 1 - uint64(user))
	if above > 0 {
		rows = append(rows, Row{ContainerID: user + 1, HostID: hostIDStart + user, Count: above})
	}
	return rows
}

// computeHostUserSwap implements spec's mode-"no"-with-HostUser algorithm:
// container id user swaps with host id hostUser, and the rest of the space
// is identity — except the container id matching hostUser itself, which
// would otherwise collide on the host side with the swap row. When user is
// 0 (no explicit User=), the container's natural identity mapping to host 0
// is itself the thing being given up to the swap, so host 0 is reclaimed
// at container id hostUser instead of left unreachable.
func computeHostUserSwap(user, hostUser uint32) []Row {
	if user == hostUser {
		return []Row{{ContainerID: 0, HostID: 0, Count: uint32(maxCount - 1)}}
	}

	lo, hi := user, hostUser
	if lo > hi {
		lo, hi = hi, lo
	}

	var rows []Row
	if lo > 0 {
		rows = append(rows, Row{ContainerID: 0, HostID: 0, Count: lo})
	}
	if hi > lo+1 {
		rows = append(rows, Row{ContainerID: lo + 1, HostID: lo + 1, Count: hi - lo - 1})
	}
	rows = append(rows, Row{ContainerID: user, HostID: hostUser, Count: 1})
	if user == 0 {
		rows = append(rows, Row{ContainerID: hostUser, HostID: 0, Count: 1})
	}
	if uint64(hi)+1 < maxCount {
		rows = append(rows, Row{ContainerID: hi + 1, HostID: hi + 1, Count: uint32(maxCount - 1 - uint64(hi))})
	}
	return rows
}

// ComputeUIDMap computes the --uidmap rows for cfg.
func ComputeUIDMap(cfg Config) ([]Row, error) { return Compute(cfg) }

// ComputeGIDMap computes the --gidmap rows for cfg.
func ComputeGIDMap(cfg Config) ([]Row, error) { return Compute(cfg) }

// Validate checks that no two rows claim overlapping container-id or
// host-id ranges, and that every row's range stays within the id space —
// the "overlapping/reversed ranges" failure spec §4.D calls BadRange.
func Validate(rows []Row) error {
	byContainer := append([]Row(nil), rows...)
	sort.Slice(byContainer, func(i, j int) bool { return byContainer[i].ContainerID < byContainer[j].ContainerID })
	for i := 1; i < len(byContainer); i++ {
		prev, cur := byContainer[i-1], byContainer[i]
		if uint64(prev.ContainerID)+uint64(prev.Count) > uint64(cur.ContainerID) {
			return &BadRangeError{A: prev, B: cur, Why: "container id ranges overlap"}
		}
	}

	byHost := append([]Row(nil), rows...)
	sort.Slice(byHost, func(i, j int) bool { return byHost[i].HostID < byHost[j].HostID })
	for i := 1; i < len(byHost); i++ {
		prev, cur := byHost[i-1], byHost[i]
		if uint64(prev.HostID)+uint64(prev.Count) > uint64(cur.HostID) {
			return &BadRangeError{A: prev, B: cur, Why: "host id ranges overlap"}
		}
	}

	for _, r := range rows {
		if uint64(r.ContainerID)+uint64(r.Count) > maxCount {
			return &BadRangeError{A: r, Why: "range runs past the end of the id space"}
		}
	}
	return nil
}
