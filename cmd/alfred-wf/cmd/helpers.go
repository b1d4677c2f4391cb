package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/halfyak/alfred-workflows/internal/alfred"
	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/gate"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
	"github.com/halfyak/alfred-workflows/internal/vcs"
)

var stdout io.Writer = os.Stdout

// loadWorkflow reads the manifest of the workflow directory, if any, and
// returns its layout.
func loadWorkflow() (*config.Manifest, *layout.Layout, error) {
	m, _, err := config.LoadDir(workDir)
	if err != nil {
		return nil, nil, err
	}
	return m, layout.FromManifest(workDir, m), nil
}

// prefsPath returns Alfred's prefs.json location.
func prefsPath() (string, error) {
	if settings.AlfredPrefs != "" {
		return settings.AlfredPrefs, nil
	}
	return alfred.DefaultPrefsPath()
}

func newGit() *vcs.Git {
	return &vcs.Git{Binary: settings.Git}
}

func newGate() *gate.Gate {
	return gate.New(newGit())
}

// workflowsRoot is the repository directory holding one directory per
// workflow.
func workflowsRoot() string {
	if filepath.IsAbs(settings.WorkflowsDir) {
		return settings.WorkflowsDir
	}
	return filepath.Join(workDir, settings.WorkflowsDir)
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(stdout, format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Fprintf(stdout, "  "+format+"\n", args...)
	}
}

// warn prints warnings even in quiet mode.
func warn(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(stdout, w)
	}
}

// printOutcomes lists outcomes that do something. Unchanged names are
// only shown in verbose mode.
func printOutcomes(outcomes []reconcile.Outcome) {
	for _, o := range outcomes {
		switch o.Action {
		case reconcile.None:
			detail("%-6s  %s", o.Action, o.Name)
		case reconcile.Fail:
			info("  %-6s  %s: %s", o.Action, o.Name, o.Reason)
		default:
			info("  %-6s  %s", o.Action, o.Name)
		}
	}
}

// countActions tallies outcomes by action.
func countActions(outcomes []reconcile.Outcome) map[reconcile.Action]int {
	counts := make(map[reconcile.Action]int)
	for _, o := range outcomes {
		counts[o.Action]++
	}
	return counts
}
