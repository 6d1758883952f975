package translate

import (
	"fmt"

	"github.com/quadforge/quadforge/internal/imageref"
	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// Image translates a [Image] unit into the "podman image pull" one-shot
// service that other units' Image=<stem>.image references depend on.
func Image(u *unitfile.Unit, ctx Context, stem string, requires, after []string) (*Output, error) {
	if !u.HasSection("Image") {
		return nil, fmt.Errorf("translate: %s has no [Image] section", stem)
	}

	raw, ok := u.LookupLast("Image", "Image")
	if !ok {
		return nil, fmt.Errorf("translate: %s [Image] section has no Image=", stem)
	}
	ref, err := imageref.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("translate: %s: %w", stem, err)
	}

	engine := ctx.EnginePath
	if engine == "" {
		engine = DefaultEnginePath
	}

	args := []string{"image", "pull"}
	if arch, ok := u.LookupLast("Image", "Arch"); ok {
		args = append(args, "--arch", arch)
	}
	if os, ok := u.LookupLast("Image", "OS"); ok {
		args = append(args, "--os", os)
	}
	if creds, ok := u.LookupLast("Image", "AuthFile"); ok {
		args = append(args, "--authfile", creds)
	}
	args = append(args, ref)

	_, serviceName := resolve.Mangle(resolve.Ref{Stem: stem, Kind: resolve.KindImage}, "")
	serviceName = ServiceName(u, "Image", serviceName)

	o := NewOutput(serviceName)
	description, _ := u.LookupLast("Unit", "Description")
	if description == "" {
		description = fmt.Sprintf("%s image pull", ref)
	}
	o.AddUnitSection(u, description, requires, after)

	o.Set("Service", "Type", "oneshot")
	o.Set("Service", "RemainAfterExit", "yes")
	o.Set("Service", "ExecStart", BuildCommandLine(engine, args))

	o.AddInstallSection(u, ctx.UserMode)
	o.AddPassthroughSection(u, "Image")

	return o, nil
}
