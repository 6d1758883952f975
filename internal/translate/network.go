package translate

import (
	"fmt"

	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// Network translates a [Network] unit into the "podman network create"
// one-shot service that provisions it.
func Network(u *unitfile.Unit, ctx Context, stem string, requires, after []string) (*Output, error) {
	if !u.HasSection("Network") {
		return nil, fmt.Errorf("translate: %s has no [Network] section", stem)
	}

	ref := resolve.Ref{Stem: stem, Kind: resolve.KindNetwork}
	nameOverride, _ := u.LookupLast("Network", "NetworkName")
	networkName, serviceName := resolve.Mangle(ref, nameOverride)
	serviceName = ServiceName(u, "Network", serviceName)

	engine := ctx.EnginePath
	if engine == "" {
		engine = DefaultEnginePath
	}

	args := []string{"network", "create", "--ignore"}
	if driver, ok := u.LookupLast("Network", "Driver"); ok {
		args = append(args, "--driver", driver)
	}
	if internal, ok := u.LookupBool("Network", "Internal"); ok && internal {
		args = append(args, "--internal")
	}
	if ipv6, ok := u.LookupBool("Network", "IPv6"); ok && ipv6 {
		args = append(args, "--ipv6")
	}
	for _, label := range u.LookupAll("Network", "Label") {
		args = append(args, "--label", label)
	}
	for _, subnet := range u.LookupAll("Network", "Subnet") {
		args = append(args, "--subnet", subnet)
	}
	for _, gw := range u.LookupAll("Network", "Gateway") {
		args = append(args, "--gateway", gw)
	}
	for _, ipRange := range u.LookupAll("Network", "IPRange") {
		args = append(args, "--ip-range", ipRange)
	}
	for _, opt := range buildNetworkDriverOpts(u) {
		args = append(args, "--opt", opt)
	}
	args = append(args, networkName)

	o := NewOutput(serviceName)
	description, _ := u.LookupLast("Unit", "Description")
	if description == "" {
		description = fmt.Sprintf("%s network", networkName)
	}
	o.AddUnitSection(u, description, requires, after)

	o.Set("Service", "Type", "oneshot")
	o.Set("Service", "RemainAfterExit", "yes")
	o.Set("Service", "ExecStart", BuildCommandLine(engine, args))

	o.AddInstallSection(u, ctx.UserMode)
	o.AddPassthroughSection(u, "Network")
	o.WarnAmbiguousBools(u, "Network", "Internal", "IPv6", "DisableDNS")

	return o, nil
}

// buildNetworkDriverOpts maps a [Network] section's DisableDNS=/MTU=/
// VLAN= directives to podman's "--opt key=value" grammar.
func buildNetworkDriverOpts(u *unitfile.Unit) []string {
	var opts []string
	if v, ok := u.LookupBool("Network", "DisableDNS"); ok && v {
		opts = append(opts, "disable_dns=true")
	}
	if v, ok := u.LookupLast("Network", "MTU"); ok {
		opts = append(opts, "mtu="+v)
	}
	if v, ok := u.LookupLast("Network", "VLAN"); ok {
		opts = append(opts, "vlan="+v)
	}
	return opts
}
