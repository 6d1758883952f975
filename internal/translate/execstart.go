package translate

import (
	"fmt"
	"strings"

	"github.com/quadforge/quadforge/internal/argsplit"
	"github.com/quadforge/quadforge/internal/assemble"
	"github.com/quadforge/quadforge/internal/idmap"
	"github.com/quadforge/quadforge/internal/imageref"
	"github.com/quadforge/quadforge/internal/passwd"
	"github.com/quadforge/quadforge/internal/resolve"
	"github.com/quadforge/quadforge/internal/unitfile"
)

// BuildContainerRunArgs assembles the "podman run" argv for a [Container]
// section in the canonical flag-family order: identity, runtime behavior,
// environment, network/storage, devices, health, security, passthrough, then image
// and command — mirroring the order the teacher's BuildAllRunArgs walks
// compose service fields in.
func BuildContainerRunArgs(u *unitfile.Unit, ctx Context, idx *resolve.Index, quadletDir, containerName string) ([]string, error) {
	args := []string{"run", "--name", containerName, "--cidfile=%t/" + containerName + ".cid", "--replace", "--rm", "--sdnotify=conmon", "-d"}

	if wd, ok := u.LookupLast("Container", "WorkingDir"); ok {
		args = append(args, "-w", wd)
	}

	if userArg, err := buildUserArg(u); err != nil {
		return nil, err
	} else if userArg != "" {
		args = append(args, "--user", userArg)
	}

	if idmapArgs, err := buildIDMapArgs(u); err != nil {
		return nil, err
	} else {
		args = append(args, idmapArgs...)
	}

	if hostname, ok := u.LookupLast("Container", "HostName"); ok {
		args = append(args, "--hostname", hostname)
	}
	if ro, ok := u.LookupBool("Container", "ReadOnly"); ok && ro {
		args = append(args, "--read-only")
	}

	for _, env := range u.LookupAll("Container", "Environment") {
		args = append(args, "-e", env)
	}
	for _, envFile := range u.LookupAll("Container", "EnvironmentFile") {
		args = append(args, "--env-file", envFile)
	}
	for _, label := range u.LookupAll("Container", "Label") {
		args = append(args, "--label", label)
	}

	for _, raw := range u.LookupAll("Container", "PublishPort") {
		p, err := assemble.ParsePublishPort(raw)
		if err != nil {
			return nil, err
		}
		args = append(args, "--publish", p.Render())
	}
	for _, raw := range u.LookupAll("Container", "ExposeHostPort") {
		expose, err := assemble.ValidateExposeHostPort(raw)
		if err != nil {
			return nil, err
		}
		args = append(args, "--expose", expose)
	}

	for _, raw := range u.LookupAll("Container", "Mount") {
		m, err := assemble.ParseMount(raw, quadletDir, idx)
		if err != nil {
			return nil, err
		}
		args = append(args, "--mount", m.Render())
	}
	for _, raw := range u.LookupAll("Container", "Volume") {
		rendered, err := resolveVolumeShorthand(raw, idx)
		if err != nil {
			return nil, err
		}
		args = append(args, "--volume", rendered)
	}

	for _, raw := range u.LookupAll("Container", "Network") {
		na, err := assemble.ParseNetwork(raw, idx)
		if err != nil {
			return nil, err
		}
		args = append(args, "--network", na.Render())
	}

	for _, dev := range u.LookupAll("Container", "AddDevice") {
		args = append(args, "--device", dev)
	}
	for _, c := range u.LookupAll("Container", "AddCapability") {
		args = append(args, "--cap-add", c)
	}
	for _, c := range u.LookupAll("Container", "DropCapability") {
		args = append(args, "--cap-drop", c)
	}
	if sysctl := u.LookupAll("Container", "Sysctl"); len(sysctl) > 0 {
		for _, s := range sysctl {
			args = append(args, "--sysctl", s)
		}
	}

	args = append(args, buildHealthArgs(u)...)
	args = append(args, buildSecurityArgs(u)...)

	if podmanArgs, ok := u.LookupLast("Container", "PodmanArgs"); ok {
		extra, err := argsplit.Split(podmanArgs)
		if err != nil {
			return nil, fmt.Errorf("translate: split PodmanArgs: %w", err)
		}
		args = append(args, extra...)
	}

	image, err := resolveImage(u, idx)
	if err != nil {
		return nil, err
	}
	args = append(args, image)

	if entrypoint, ok := u.LookupLast("Container", "Entrypoint"); ok {
		words, err := argsplit.Split(entrypoint)
		if err != nil {
			return nil, fmt.Errorf("translate: split Entrypoint: %w", err)
		}
		args = append(args, words...)
	}
	if exec, ok := u.LookupLast("Container", "Exec"); ok {
		words, err := argsplit.Split(exec)
		if err != nil {
			return nil, fmt.Errorf("translate: split Exec: %w", err)
		}
		args = append(args, words...)
	}

	return args, nil
}

func buildUserArg(u *unitfile.Unit) (string, error) {
	user, hasUser := u.LookupLast("Container", "User")
	group, hasGroup := u.LookupLast("Container", "Group")
	if !hasUser {
		return "", nil
	}
	if hasGroup {
		return user + ":" + group, nil
	}
	return user, nil
}

func buildIDMapArgs(u *unitfile.Unit) ([]string, error) {
	remap, _ := u.LookupLast("Container", "RemapUsers")
	if remap == "" {
		return nil, nil
	}

	uidCfg := idmap.Config{Mode: remap}
	if user, ok := u.LookupLast("Container", "User"); ok {
		n, err := passwd.System.LookupUID(user)
		if err != nil {
			return nil, fmt.Errorf("translate: User: %w", err)
		}
		uidCfg.UserID = n
	}
	if start, ok := u.LookupLast("Container", "RemapUidStart"); ok {
		n, err := passwd.ParseNumericID(start)
		if err != nil {
			return nil, fmt.Errorf("translate: RemapUidStart: %w", err)
		}
		uidCfg.HostIDStart = n
	}
	if hostUser, ok := u.LookupLast("Container", "HostUser"); ok {
		n, err := passwd.System.LookupUID(hostUser)
		if err != nil {
			return nil, fmt.Errorf("translate: HostUser: %w", err)
		}
		uidCfg.HostID = &n
	}

	uidRows, err := idmap.ComputeUIDMap(uidCfg)
	if err != nil {
		return nil, fmt.Errorf("translate: compute uid map: %w", err)
	}

	gidCfg := idmap.Config{Mode: remap, HostIDStart: uidCfg.HostIDStart}
	if group, ok := u.LookupLast("Container", "Group"); ok {
		n, err := passwd.System.LookupGID(group)
		if err != nil {
			return nil, fmt.Errorf("translate: Group: %w", err)
		}
		gidCfg.UserID = n
	}
	if start, ok := u.LookupLast("Container", "RemapGidStart"); ok {
		n, err := passwd.ParseNumericID(start)
		if err != nil {
			return nil, fmt.Errorf("translate: RemapGidStart: %w", err)
		}
		gidCfg.HostIDStart = n
	}
	if hostGroup, ok := u.LookupLast("Container", "HostGroup"); ok {
		n, err := passwd.System.LookupGID(hostGroup)
		if err != nil {
			return nil, fmt.Errorf("translate: HostGroup: %w", err)
		}
		gidCfg.HostID = &n
	}

	gidRows, err := idmap.ComputeGIDMap(gidCfg)
	if err != nil {
		return nil, fmt.Errorf("translate: compute gid map: %w", err)
	}

	var args []string
	for _, r := range uidRows {
		args = append(args, "--uidmap", fmt.Sprintf("%d:%d:%d", r.ContainerID, r.HostID, r.Count))
	}
	for _, r := range gidRows {
		args = append(args, "--gidmap", fmt.Sprintf("%d:%d:%d", r.ContainerID, r.HostID, r.Count))
	}
	return args, nil
}

func buildHealthArgs(u *unitfile.Unit) []string {
	var args []string
	if cmd, ok := u.LookupLast("Container", "HealthCmd"); ok {
		args = append(args, "--health-cmd", cmd)
	}
	if v, ok := u.LookupLast("Container", "HealthInterval"); ok {
		args = append(args, "--health-interval", v)
	}
	if v, ok := u.LookupLast("Container", "HealthTimeout"); ok {
		args = append(args, "--health-timeout", v)
	}
	if v, ok := u.LookupLast("Container", "HealthRetries"); ok {
		args = append(args, "--health-retries", v)
	}
	if v, ok := u.LookupLast("Container", "HealthStartPeriod"); ok {
		args = append(args, "--health-start-period", v)
	}
	if v, ok := u.LookupLast("Container", "HealthStartupInterval"); ok {
		args = append(args, "--health-startup-interval", v)
	}
	return args
}

// buildSecurityArgs maps the security-related directives spec expansion
// adds (SecurityLabelDisable=, SecurityLabelType=, SecurityLabelLevel=,
// NoNewPrivileges=, Mask=, Unmask=) onto the corresponding --security-opt
// engine flags, grounded on the teacher's SecurityOpt
// switch in buildContainerSection, adapted to read Quadlet's own native
// [Container] keys instead of compose security_opt strings.
func buildSecurityArgs(u *unitfile.Unit) []string {
	var args []string

	if disable, ok := u.LookupBool("Container", "SecurityLabelDisable"); ok && disable {
		args = append(args, "--security-opt", "label=disable")
	}
	if t, ok := u.LookupLast("Container", "SecurityLabelType"); ok {
		args = append(args, "--security-opt", "label=type:"+t)
	}
	if level, ok := u.LookupLast("Container", "SecurityLabelLevel"); ok {
		args = append(args, "--security-opt", "label=level:"+level)
	}
	if nnp, ok := u.LookupBool("Container", "NoNewPrivileges"); ok && nnp {
		args = append(args, "--security-opt", "no-new-privileges")
	}
	for _, m := range u.LookupAll("Container", "Mask") {
		args = append(args, "--security-opt", "mask="+m)
	}
	for _, m := range u.LookupAll("Container", "Unmask") {
		args = append(args, "--security-opt", "unmask="+m)
	}

	return args
}

// resolveVolumeShorthand resolves a "source:dest[:options]" Volume=
// directive, rewriting source when it names a sibling .volume unit.
func resolveVolumeShorthand(raw string, idx *resolve.Index) (string, error) {
	fields := strings.SplitN(raw, ":", 3)
	if len(fields) == 0 {
		return raw, nil
	}
	src := fields[0]
	if ref, ok := resolve.ParseRef(src); ok && ref.Kind == resolve.KindVolume {
		if idx != nil && !idx.Has(ref) {
			return "", fmt.Errorf("translate: Volume=%s names an unknown volume unit", raw)
		}
		engineName, _ := resolve.Mangle(ref, "")
		fields[0] = engineName
	}
	return strings.Join(fields, ":"), nil
}

func resolveImage(u *unitfile.Unit, idx *resolve.Index) (string, error) {
	raw, ok := u.LookupLast("Container", "Image")
	if !ok {
		return "", fmt.Errorf("translate: [Container] is missing Image=")
	}
	if imageref.IsSiblingUnitReference(raw) {
		ref, ok := resolve.ParseRef(raw)
		if !ok {
			return "", fmt.Errorf("translate: Image=%s is not a valid sibling unit reference", raw)
		}
		if idx != nil && !idx.Has(ref) {
			return "", fmt.Errorf("translate: Image=%s names an unknown unit", raw)
		}
		engineName, _ := resolve.Mangle(ref, "")
		return engineName, nil
	}
	return imageref.Normalize(raw)
}
