package environ

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Shell is a shell dialect for exported statements
type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellSh   Shell = "sh"
	ShellFish Shell = "fish"
)

// DetectShell maps a $SHELL value to a dialect, defaulting to bash
func DetectShell(shellPath string) Shell {
	switch filepath.Base(shellPath) {
	case "fish":
		return ShellFish
	case "zsh":
		return ShellZsh
	case "sh", "dash", "ash":
		return ShellSh
	default:
		return ShellBash
	}
}

// ParseShell validates a shell name given on the command line
func ParseShell(name string) (Shell, bool) {
	switch Shell(strings.ToLower(name)) {
	case ShellBash, ShellZsh, ShellSh, ShellFish:
		return Shell(strings.ToLower(name)), true
	}
	return "", false
}

// Exports renders the recorded changes as statements for shell
func (e *Env) Exports(shell Shell) string {
	var b strings.Builder
	for _, c := range e.Changes() {
		b.WriteString(statement(shell, c))
		b.WriteByte('\n')
	}
	return b.String()
}

func statement(shell Shell, c Change) string {
	if shell == ShellFish {
		if c.Unset {
			return "set -e " + c.Key
		}
		if c.Key == PathVar {
			entries := SplitPath(c.Value)
			quoted := make([]string, len(entries))
			for i, p := range entries {
				quoted[i] = fishQuote(p)
			}
			return "set -gx PATH " + strings.Join(quoted, " ")
		}
		return fmt.Sprintf("set -gx %s %s", c.Key, fishQuote(c.Value))
	}

	if c.Unset {
		return "unset " + c.Key
	}
	return fmt.Sprintf("export %s=%s", c.Key, posixQuote(c.Value))
}

// posixQuote double-quotes s, escaping the characters the shell expands
func posixQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `$`, `\$`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}

func fishQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(s) + "'"
}
