package translate

import (
	"fmt"

	"github.com/quadforge/quadforge/internal/assemble"
	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// Pod translates a [Pod] unit into the "podman pod create" service that
// creates the shared pod sandbox containers in the same .pod unit attach
// to via Pod=.
func Pod(u *unitfile.Unit, ctx Context, idx *resolve.Index, stem string, requires, after []string) (*Output, error) {
	if !u.HasSection("Pod") {
		return nil, fmt.Errorf("translate: %s has no [Pod] section", stem)
	}

	podName := stem
	if name, ok := u.LookupLast("Pod", "PodName"); ok {
		podName = name
	}

	engine := ctx.EnginePath
	if engine == "" {
		engine = DefaultEnginePath
	}

	args := []string{"pod", "create", "--name", podName, "--infra-conmon-pidfile=%t/" + stem + ".pid", "--exit-policy=stop"}

	for _, raw := range u.LookupAll("Pod", "PublishPort") {
		p, err := assemble.ParsePublishPort(raw)
		if err != nil {
			return nil, err
		}
		args = append(args, "--publish", p.Render())
	}
	for _, raw := range u.LookupAll("Pod", "Network") {
		na, err := assemble.ParseNetwork(raw, idx)
		if err != nil {
			return nil, err
		}
		args = append(args, "--network", na.Render())
	}
	for _, v := range u.LookupAll("Pod", "Volume") {
		args = append(args, "--volume", v)
	}

	o := NewOutput(ServiceName(u, "Pod", stem+"-pod.service"))
	description, _ := u.LookupLast("Unit", "Description")
	if description == "" {
		description = fmt.Sprintf("%s pod", podName)
	}
	o.AddUnitSection(u, description, requires, after)

	o.Set("Service", "Type", "notify")
	o.Set("Service", "NotifyAccess", "all")
	o.Set("Service", "ExecStartPre", fmt.Sprintf("-%s pod rm --ignore --force --pod-id-file=%%t/%s.pod-id", engine, stem))
	o.Set("Service", "ExecStart", BuildCommandLine(engine, append(args, "--pod-id-file=%t/"+stem+".pod-id", "--replace")))
	o.Set("Service", "ExecStop", fmt.Sprintf("%s pod stop --ignore --pod-id-file=%%t/%s.pod-id", engine, stem))
	o.Set("Service", "ExecStopPost", fmt.Sprintf("%s pod rm --ignore -f --pod-id-file=%%t/%s.pod-id", engine, stem))

	o.AddInstallSection(u, ctx.UserMode)
	o.AddPassthroughSection(u, "Pod")

	return o, nil
}
