package engine

import (
	"path/filepath"
	"strings"
)

// ShQuote quotes s for a POSIX shell.
func ShQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

// helpCommand renders a copy-pasteable shell line that runs an alfred-wf
// subcommand in dir. The leading ":;" makes the line a no-op prefix in the
// shell so the whole line can be pasted.
func helpCommand(dir, command string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return ":; ( cd " + ShQuote(abs) + " && alfred-wf " + command + "; )"
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
