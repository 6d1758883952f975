package translate

import (
	"fmt"

	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// Volume translates a [Volume] unit into the "podman volume create"
// one-shot service that provisions it, mirroring the teacher's
// buildVolumeSection/mapDriverOpts directive mapping (spec component F).
func Volume(u *unitfile.Unit, ctx Context, stem string, requires, after []string) (*Output, error) {
	if !u.HasSection("Volume") {
		return nil, fmt.Errorf("translate: %s has no [Volume] section", stem)
	}

	ref := resolve.Ref{Stem: stem, Kind: resolve.KindVolume}
	nameOverride, _ := u.LookupLast("Volume", "VolumeName")
	volumeName, serviceName := resolve.Mangle(ref, nameOverride)
	serviceName = ServiceName(u, "Volume", serviceName)

	engine := ctx.EnginePath
	if engine == "" {
		engine = DefaultEnginePath
	}

	args := []string{"volume", "create", "--ignore"}
	if driver, ok := u.LookupLast("Volume", "Driver"); ok {
		args = append(args, "--driver", driver)
	}
	for _, label := range u.LookupAll("Volume", "Label") {
		args = append(args, "--label", label)
	}
	for _, opt := range buildVolumeDriverOpts(u) {
		args = append(args, "--opt", opt)
	}
	args = append(args, volumeName)

	o := NewOutput(serviceName)
	description, _ := u.LookupLast("Unit", "Description")
	if description == "" {
		description = fmt.Sprintf("%s volume", volumeName)
	}
	o.AddUnitSection(u, description, requires, after)

	o.Set("Service", "Type", "oneshot")
	o.Set("Service", "RemainAfterExit", "yes")
	o.Set("Service", "ExecStart", BuildCommandLine(engine, args))

	o.AddInstallSection(u, ctx.UserMode)
	o.AddPassthroughSection(u, "Volume")
	o.WarnAmbiguousBools(u, "Volume", "Copy")

	return o, nil
}

// buildVolumeDriverOpts maps the individual driver-option directives a
// [Volume] section may carry (Copy=, Device=, Group=, Image=, Options=,
// Type=, User=) to podman's "--opt key=value" grammar.
func buildVolumeDriverOpts(u *unitfile.Unit) []string {
	var opts []string
	if v, ok := u.LookupBool("Volume", "Copy"); ok && v {
		opts = append(opts, "copy")
	}
	if v, ok := u.LookupLast("Volume", "Device"); ok {
		opts = append(opts, "device="+v)
	}
	if v, ok := u.LookupLast("Volume", "Type"); ok {
		opts = append(opts, "type="+v)
	}
	if v, ok := u.LookupLast("Volume", "Options"); ok {
		opts = append(opts, "o="+v)
	}
	if v, ok := u.LookupLast("Volume", "User"); ok {
		opts = append(opts, "o=uid="+v)
	}
	if v, ok := u.LookupLast("Volume", "Group"); ok {
		opts = append(opts, "o=gid="+v)
	}
	if v, ok := u.LookupLast("Volume", "Image"); ok {
		opts = append(opts, "image="+v)
	}
	return opts
}
