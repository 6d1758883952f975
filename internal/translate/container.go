package translate

import (
	"fmt"

	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// Container translates a [Container] unit into its systemd .service unit.
// stem is the unit's file name without extension; requires/after are the
// systemd dependency unit names the Cross-Unit Resolver computed for every
// sibling unit this one references.
func Container(u *unitfile.Unit, ctx Context, idx *resolve.Index, quadletDir, stem string, requires, after []string) (*Output, error) {
	if !u.HasSection("Container") {
		return nil, fmt.Errorf("translate: %s has no [Container] section", stem)
	}

	containerName := stem
	if name, ok := u.LookupLast("Container", "ContainerName"); ok {
		containerName = name
	}

	engine := ctx.EnginePath
	if engine == "" {
		engine = DefaultEnginePath
	}

	args, err := BuildContainerRunArgs(u, ctx, idx, quadletDir, containerName)
	if err != nil {
		return nil, fmt.Errorf("translate: %s: %w", stem, err)
	}

	o := NewOutput(ServiceName(u, "Container", stem+".service"))

	description, _ := u.LookupLast("Unit", "Description")
	if description == "" {
		description = fmt.Sprintf("%s container", containerName)
	}
	o.AddUnitSection(u, description, requires, after)

	o.Set("Service", "Type", "notify")
	o.Set("Service", "NotifyAccess", "all")
	o.Set("Service", "ExecStart", BuildCommandLine(engine, args))
	o.Set("Service", "ExecStop", fmt.Sprintf("%s stop --ignore --cidfile=%%t/%s.cid", engine, containerName))
	o.Set("Service", "ExecStopPost", fmt.Sprintf("%s rm -f --ignore --cidfile=%%t/%s.cid", engine, containerName))

	if restart, ok := u.LookupLast("Service", "Restart"); ok {
		o.Set("Service", "Restart", restart)
	} else {
		o.Set("Service", "Restart", "on-failure")
	}
	if timeout, ok := u.LookupLast("Container", "TimeoutStartSec"); ok {
		o.Set("Service", "TimeoutStartSec", timeout)
	}

	o.AddInstallSection(u, ctx.UserMode)
	o.AddPassthroughSection(u, "Container")
	o.WarnAmbiguousBools(u, "Container", "ReadOnly", "NoNewPrivileges", "SecurityLabelDisable", "RemapUsers")

	return o, nil
}
