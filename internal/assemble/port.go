package assemble

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Port is a normalized PublishPort= entry.
type Port struct {
	HostIP           string
	HostPort         string // may be a range "8080-8090" or empty (ephemeral)
	HostPortEnd      string
	ContainerPort    string
	ContainerPortEnd string
	Protocol         string // "tcp" (default) or "udp"

	// Passthrough holds the original spec verbatim when it contains a
	// systemd specifier ($VAR or ${VAR}) — such values are left for
	// systemd to expand at service-start time (spec §4.E) and are never
	// port/IP-validated, since their real value isn't known until then.
	Passthrough string
}

// hasSystemdSpecifier reports whether s contains a "$NAME" or "${NAME}"
// environment/specifier reference that systemd expands at unit-start
// time, per spec §4.E's PublishPort=${PORT}:${PORT} example.
func hasSystemdSpecifier(s string) bool {
	return strings.ContainsRune(s, '$')
}

// ParsePublishPort validates and normalizes a PublishPort= value, accepting
// the same grammar podman's --publish flag does:
//
//	[[ip:][hostPort]:]containerPort[-containerPortEnd][/protocol]
//
// IPv6 addresses must be bracketed, as in "[::1]:8080:80". A value
// containing a systemd specifier is passed through unexpanded and
// unvalidated (spec §4.E).
func ParsePublishPort(spec string) (Port, error) {
	if hasSystemdSpecifier(spec) {
		return Port{Passthrough: spec}, nil
	}

	rest := spec
	var p Port
	p.Protocol = "tcp"

	if i := strings.LastIndexByte(rest, '/'); i >= 0 && (rest[i+1:] == "tcp" || rest[i+1:] == "udp") {
		p.Protocol = rest[i+1:]
		rest = rest[:i]
	}

	ip, hostPort, containerPort, err := splitPublishPort(rest)
	if err != nil {
		return Port{}, fmt.Errorf("assemble: invalid PublishPort %q: %w", spec, err)
	}
	if ip != "" && net.ParseIP(ip) == nil {
		return Port{}, fmt.Errorf("assemble: invalid host IP %q in %q", ip, spec)
	}
	p.HostIP = ip

	if hostPort != "" {
		start, end, err := parsePortOrRange(hostPort)
		if err != nil {
			return Port{}, fmt.Errorf("assemble: invalid host port in %q: %w", spec, err)
		}
		p.HostPort, p.HostPortEnd = start, end
	}

	start, end, err := parsePortOrRange(containerPort)
	if err != nil {
		return Port{}, fmt.Errorf("assemble: invalid container port in %q: %w", spec, err)
	}
	p.ContainerPort, p.ContainerPortEnd = start, end

	return p, nil
}

// splitPublishPort separates an optional leading "[ip]:" or "ip:", an
// optional hostPort, and the mandatory containerPort from the colon-joined
// remainder of a PublishPort= value.
func splitPublishPort(s string) (ip, hostPort, containerPort string, err error) {
	if strings.HasPrefix(s, "[") {
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return "", "", "", fmt.Errorf("unterminated IPv6 address")
		}
		ip = s[1:end]
		rest := strings.TrimPrefix(s[end+1:], ":")
		return splitHostAndContainerPort(ip, rest)
	}
	return splitHostAndContainerPort("", s)
}

func splitHostAndContainerPort(ip, s string) (string, string, string, error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		return ip, "", parts[0], nil
	case 2:
		// A bare (unbracketed) "a:b" with no IP already consumed is
		// hostPort:containerPort, not ip:containerPort — IPv4 host
		// addresses require the 3-field form, IPv6 requires brackets.
		if ip == "" {
			return "", parts[0], parts[1], nil
		}
		return ip, parts[0], parts[1], nil
	case 3:
		return parts[0], parts[1], parts[2], nil
	default:
		return "", "", "", fmt.Errorf("too many ':'-separated fields")
	}
}

// parsePortOrRange parses "N" or "N-M" and validates both ends are in
// [1,65535] with start <= end.
func parsePortOrRange(s string) (start, end string, err error) {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		start, end = s[:i], s[i+1:]
	} else {
		start, end = s, ""
	}
	if err := validatePort(start); err != nil {
		return "", "", err
	}
	if end != "" {
		if err := validatePort(end); err != nil {
			return "", "", err
		}
		sv, _ := strconv.Atoi(start)
		ev, _ := strconv.Atoi(end)
		if sv > ev {
			return "", "", fmt.Errorf("port range %s-%s is reversed", start, end)
		}
	}
	return start, end, nil
}

// ValidateExposeHostPort checks an ExposeHostPort= value against the
// "PORT[-PORTEND][/proto]" grammar spec §4.E describes and returns it
// unchanged for direct use as --expose's argument, or passes through a
// value containing a systemd specifier unvalidated, the same way
// PublishPort= does.
func ValidateExposeHostPort(spec string) (string, error) {
	if hasSystemdSpecifier(spec) {
		return spec, nil
	}

	rest := spec
	proto := ""
	if i := strings.LastIndexByte(rest, '/'); i >= 0 {
		proto = rest[i+1:]
		rest = rest[:i]
		if proto != "tcp" && proto != "udp" && proto != "sctp" {
			return "", fmt.Errorf("assemble: invalid ExposeHostPort %q: unknown protocol %q", spec, proto)
		}
	}

	if _, _, err := parsePortOrRange(rest); err != nil {
		return "", fmt.Errorf("assemble: invalid ExposeHostPort %q: %w", spec, err)
	}
	return spec, nil
}

func validatePort(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	if v < 1 || v > 65535 {
		return fmt.Errorf("%d is out of range [1,65535]", v)
	}
	return nil
}

// Render renders p back to podman's --publish flag grammar.
func (p Port) Render() string {
	if p.Passthrough != "" {
		return p.Passthrough
	}
	var b strings.Builder
	if p.HostIP != "" {
		if strings.Contains(p.HostIP, ":") {
			b.WriteString("[" + p.HostIP + "]")
		} else {
			b.WriteString(p.HostIP)
		}
		b.WriteByte(':')
	}
	if p.HostPort != "" {
		b.WriteString(p.HostPort)
		if p.HostPortEnd != "" {
			b.WriteByte('-')
			b.WriteString(p.HostPortEnd)
		}
		b.WriteByte(':')
	}
	b.WriteString(p.ContainerPort)
	if p.ContainerPortEnd != "" {
		b.WriteByte('-')
		b.WriteString(p.ContainerPortEnd)
	}
	if p.Protocol != "" && p.Protocol != "tcp" {
		b.WriteByte('/')
		b.WriteString(p.Protocol)
	}
	return b.String()
}
