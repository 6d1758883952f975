// Package directives implements the comment-directive test format (spec
// §6): a fixture is an ordinary quadlet unit file whose "## "
// comment lines each carry one assertion or declaration to run against the
// translated output, grounded on Podman's own quadlet e2e harness
// (loadQuadletTestcase/matchSublistAt/findSublist in the pack) adapted to
// check this generator's translate.Output directly instead of shelling out
// to a running podman and re-parsing its generated file from disk.
package directives

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quadforge/quadforge/internal/argsplit"
	"github.com/quadforge/quadforge/internal/translate"
)

// Case is one loaded fixture: its directive lines, parsed into argv form
// with the same splitter the generator itself uses for shell-word values.
type Case struct {
	Path   string
	Checks [][]string
}

// Load scans data's "##" comment lines for directives. A line is a
// directive regardless of where it appears in the file, matching the
// teacher harness's behavior of collecting every "##" line in one pass.
func Load(path string, data []byte) (*Case, error) {
	var checks [][]string
	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "##") {
			continue
		}
		body := strings.TrimSpace(trimmed[2:])
		if body == "" {
			continue
		}
		words, err := argsplit.Split(body)
		if err != nil {
			return nil, fmt.Errorf("directives: %s: parse directive %q: %w", path, trimmed, err)
		}
		if len(words) == 0 {
			continue
		}
		checks = append(checks, words)
	}
	return &Case{Path: path, Checks: checks}, nil
}

// DependsOn returns the sibling unit file names this case's "##
// depends-on" directives name, so a caller can ensure those units are
// loaded into the resolve.Index before Evaluate runs.
func (c *Case) DependsOn() []string {
	var out []string
	for _, check := range c.Checks {
		if check[0] == "depends-on" && len(check) > 1 {
			out = append(out, check[1])
		}
	}
	return out
}

// ExpectFailure reports whether this case declares "## assert-failed":
// translating its unit must return an error rather than an Output.
func (c *Case) ExpectFailure() bool {
	for _, check := range c.Checks {
		if check[0] == "assert-failed" {
			return true
		}
	}
	return false
}

// Evaluate runs every assertion directive against a successfully
// translated unit.
func (c *Case) Evaluate(out *translate.Output) error {
	for _, check := range c.Checks {
		op := check[0]
		if op == "depends-on" || op == "assert-failed" {
			continue
		}
		if err := c.assert(op, check[1:], out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Case) assert(op string, args []string, out *translate.Output) error {
	invert := false
	if strings.HasPrefix(op, "!") {
		invert = true
		op = op[1:]
	}

	var (
		ok  bool
		err error
	)
	switch op {
	case "assert-podman-args":
		ok, err = c.assertPodmanArgs(args, out)
	case "assert-podman-args-key-val":
		ok, err = c.assertPodmanArgsKeyVal(args, out, false)
	case "assert-podman-args-key-val-regex":
		ok, err = c.assertPodmanArgsKeyVal(args, out, true)
	case "assert-key-is":
		ok, err = c.assertKeyIs(args, out)
	default:
		return fmt.Errorf("directives: %s: unsupported assertion %q", c.Path, op)
	}
	if err != nil {
		return err
	}
	if invert {
		ok = !ok
	}
	if !ok {
		return fmt.Errorf("directives: %s: failed assertion: ## %s %s", c.Path, op, strings.Join(args, " "))
	}
	return nil
}

func execStartTokens(out *translate.Output) ([]string, error) {
	raw := out.File.Section("Service").Key("ExecStart").Value()
	return argsplit.Split(raw)
}

// assertPodmanArgs reports whether args appears as a contiguous
// subsequence of the generated ExecStart='s tokens.
func (c *Case) assertPodmanArgs(args []string, out *translate.Output) (bool, error) {
	tokens, err := execStartTokens(out)
	if err != nil {
		return false, fmt.Errorf("directives: %s: split ExecStart: %w", c.Path, err)
	}
	return findSublist(tokens, args) >= 0, nil
}

func findSublist(full, sub []string) int {
	if len(sub) == 0 || len(sub) > len(full) {
		return -1
	}
	for i := 0; i+len(sub) <= len(full); i++ {
		if matchAt(full, i, sub) {
			return i
		}
	}
	return -1
}

func matchAt(full []string, pos int, sub []string) bool {
	for i := range sub {
		if full[pos+i] != sub[i] {
			return false
		}
	}
	return true
}

// assertPodmanArgsKeyVal finds KEY's immediately-following ExecStart token
// and compares it against VALUE split on SEP, as an unordered set so
// reorderable subkeys (e.g. comma-joined --opt values) still match. When
// asRegex is set, VALUE is instead a regexp matched against the whole
// following token.
func (c *Case) assertPodmanArgsKeyVal(args []string, out *translate.Output, asRegex bool) (bool, error) {
	if len(args) < 3 {
		return false, fmt.Errorf("directives: %s: %s needs KEY SEP VALUE", c.Path, "assert-podman-args-key-val")
	}
	key, sep, value := args[0], args[1], strings.Join(args[2:], " ")

	tokens, err := execStartTokens(out)
	if err != nil {
		return false, fmt.Errorf("directives: %s: split ExecStart: %w", c.Path, err)
	}

	idx := -1
	for i, t := range tokens {
		if t == key {
			idx = i
			break
		}
	}
	if idx < 0 || idx+1 >= len(tokens) {
		return false, nil
	}
	got := tokens[idx+1]

	if asRegex {
		re, err := regexp.Compile(value)
		if err != nil {
			return false, fmt.Errorf("directives: %s: bad regex %q: %w", c.Path, value, err)
		}
		return re.MatchString(got), nil
	}

	return sameSet(strings.Split(got, sep), strings.Split(value, sep)), nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, x := range a {
		counts[x]++
	}
	for _, x := range b {
		counts[x]--
	}
	for _, n := range counts {
		if n != 0 {
			return false
		}
	}
	return true
}

// assertKeyIs reports whether SECTION/KEY's entries (including any
// shadow/repeated occurrences, in order) equal VALUES exactly.
func (c *Case) assertKeyIs(args []string, out *translate.Output) (bool, error) {
	if len(args) < 2 {
		return false, fmt.Errorf("directives: %s: assert-key-is needs SECTION KEY [VALUES...]", c.Path)
	}
	section, key, want := args[0], args[1], args[2:]

	got := out.File.Section(section).Key(key).ValueWithShadows()
	if len(got) != len(want) {
		return false, nil
	}
	for i := range got {
		if got[i] != want[i] {
			return false, nil
		}
	}
	return true, nil
}
