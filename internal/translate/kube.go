package translate

import (
	"fmt"

	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// Kube translates a [Kube] unit into the "podman kube play" service that
// applies the referenced Kubernetes YAML manifest.
func Kube(u *unitfile.Unit, ctx Context, stem string, requires, after []string) (*Output, error) {
	if !u.HasSection("Kube") {
		return nil, fmt.Errorf("translate: %s has no [Kube] section", stem)
	}

	yaml, ok := u.LookupLast("Kube", "Yaml")
	if !ok {
		return nil, fmt.Errorf("translate: %s [Kube] section has no Yaml=", stem)
	}

	engine := ctx.EnginePath
	if engine == "" {
		engine = DefaultEnginePath
	}

	args := []string{"kube", "play", "--replace"}
	if network, ok := u.LookupLast("Kube", "Network"); ok {
		args = append(args, "--network", network)
	}
	if configMap, ok := u.LookupLast("Kube", "ConfigMap"); ok {
		args = append(args, "--configmap", configMap)
	}
	args = append(args, yaml)

	_, serviceName := resolve.Mangle(resolve.Ref{Stem: stem, Kind: resolve.KindKube}, "")
	serviceName = ServiceName(u, "Kube", serviceName)

	o := NewOutput(serviceName)
	description, _ := u.LookupLast("Unit", "Description")
	if description == "" {
		description = fmt.Sprintf("%s kube play", stem)
	}
	o.AddUnitSection(u, description, requires, after)

	o.Set("Service", "Type", "notify")
	o.Set("Service", "NotifyAccess", "all")
	o.Set("Service", "ExecStart", BuildCommandLine(engine, args))
	o.Set("Service", "ExecStop", fmt.Sprintf("%s kube down %s", engine, yaml))

	o.AddInstallSection(u, ctx.UserMode)
	o.AddPassthroughSection(u, "Kube")

	return o, nil
}
