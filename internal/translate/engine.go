package translate

import "strings"

// BuildCommandLine joins the engine binary with its argv into the single
// ExecStart= string systemd expects, quoting any argument that contains
// whitespace the way systemd's own ExecStart= parser requires.
func BuildCommandLine(enginePath string, args []string) string {
	var b strings.Builder
	b.WriteString(enginePath)
	for _, a := range args {
		b.WriteByte(' ')
		if needsExecQuoting(a) {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(a, `"`, `\"`))
			b.WriteByte('"')
		} else {
			b.WriteString(a)
		}
	}
	return b.String()
}

func needsExecQuoting(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\"'")
}
