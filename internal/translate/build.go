package translate

import (
	"fmt"

	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// Build translates a [Build] unit into the "podman build" one-shot
// service that produces the image other units' Image=<stem>.build
// references depend on.
func Build(u *unitfile.Unit, ctx Context, stem string, requires, after []string) (*Output, error) {
	if !u.HasSection("Build") {
		return nil, fmt.Errorf("translate: %s has no [Build] section", stem)
	}

	setWorkingDirectory, ok := u.LookupLast("Build", "SetWorkingDirectory")
	contextDir := setWorkingDirectory
	if !ok {
		contextDir = "."
	}

	imageName := stem
	if tag, ok := u.LookupLast("Build", "ImageTag"); ok {
		imageName = tag
	}

	engine := ctx.EnginePath
	if engine == "" {
		engine = DefaultEnginePath
	}

	args := []string{"build", "--file", contextDir, "-t", imageName}
	if target, ok := u.LookupLast("Build", "Target"); ok {
		args = append(args, "--target", target)
	}
	for _, arg := range u.LookupAll("Build", "Arch") {
		args = append(args, "--arch", arg)
	}
	for _, label := range u.LookupAll("Build", "Label") {
		args = append(args, "--label", label)
	}
	args = append(args, contextDir)

	_, serviceName := resolve.Mangle(resolve.Ref{Stem: stem, Kind: resolve.KindBuild}, "")
	serviceName = ServiceName(u, "Build", serviceName)

	o := NewOutput(serviceName)
	description, _ := u.LookupLast("Unit", "Description")
	if description == "" {
		description = fmt.Sprintf("%s image build", imageName)
	}
	o.AddUnitSection(u, description, requires, after)

	o.Set("Service", "Type", "oneshot")
	o.Set("Service", "RemainAfterExit", "yes")
	o.Set("Service", "ExecStart", BuildCommandLine(engine, args))

	o.AddInstallSection(u, ctx.UserMode)
	o.AddPassthroughSection(u, "Build")

	return o, nil
}
