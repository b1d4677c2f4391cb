// Package gate refuses to apply a sync plan that contains failures, or that
// would overwrite or remove anything git could not restore.
package gate

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/logger"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
	"github.com/halfyak/alfred-workflows/internal/vcs"
)

// StatusChecker reports the git status of files in a directory.
type StatusChecker interface {
	Status(ctx context.Context, dir string, files []string) (*vcs.Status, error)
}

// Partition groups outcomes by what they require. Each group keeps the
// input order.
type Partition struct {
	Failures  []reconcile.Outcome
	Changes   []reconcile.Outcome
	Unchanged []reconcile.Outcome
}

// Split partitions outcomes into failures, changes (Copy or Delete) and
// unchanged (None).
func Split(outcomes []reconcile.Outcome) Partition {
	var p Partition
	for _, o := range outcomes {
		switch o.Action {
		case reconcile.Fail:
			p.Failures = append(p.Failures, o)
		case reconcile.None:
			p.Unchanged = append(p.Unchanged, o)
		default:
			p.Changes = append(p.Changes, o)
		}
	}
	return p
}

// Of returns the outcomes whose action is a.
func (p Partition) Of(a reconcile.Action) []reconcile.Outcome {
	var out []reconcile.Outcome
	for _, o := range p.Changes {
		if o.Action == a {
			out = append(out, o)
		}
	}
	return out
}

// Names returns the names of outcomes, in order.
func Names(outcomes []reconcile.Outcome) []string {
	names := make([]string, len(outcomes))
	for i, o := range outcomes {
		names[i] = o.Name
	}
	return names
}

// FailureError lists every outcome that classified as Fail.
type FailureError struct {
	Message  string
	Failures []reconcile.Outcome
}

func (e *FailureError) Error() string { return e.Message }

// Details returns one "  name: reason" line per failure.
func (e *FailureError) Details() []string {
	lines := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		lines[i] = fmt.Sprintf("  %s: %s", f.Name, f.Reason)
	}
	return lines
}

// CheckFailures returns a FailureError if p has any failures. The message
// reads "Cannot <op>, N problems with sync<suffix>:".
func CheckFailures(p Partition, op, suffix string) error {
	if len(p.Failures) == 0 {
		return nil
	}
	return &FailureError{
		Message:  fmt.Sprintf("Cannot %s, %d problems with sync%s:", op, len(p.Failures), suffix),
		Failures: p.Failures,
	}
}

// DirtyError reports changes that would touch files git cannot restore.
type DirtyError struct {
	Op      string
	Status  vcs.Status
	Actions map[string]reconcile.Action
}

func (e *DirtyError) Error() string { return "Cannot " + e.Op }

// Offending returns every file named by the status, sorted and without
// duplicates.
func (e *DirtyError) Offending() []string {
	var all []string
	all = append(all, e.Status.Staged...)
	all = append(all, e.Status.Unstaged...)
	all = append(all, e.Status.Untracked...)
	slices.Sort(all)
	return slices.Compact(all)
}

// Details groups the files by kind and then maps each offending file to the
// action that was refused.
func (e *DirtyError) Details() []string {
	var lines []string
	for _, kind := range []struct {
		name  string
		files []string
	}{
		{"staged", e.Status.Staged},
		{"unstaged", e.Status.Unstaged},
		{"untracked", e.Status.Untracked},
	} {
		if len(kind.files) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("Following %d files are %s in git:", len(kind.files), kind.name))
		for _, f := range kind.files {
			lines = append(lines, "  "+f)
		}
	}
	lines = append(lines, "and so cannot perform actions:")
	for _, f := range e.Offending() {
		action := "???"
		if a, ok := e.Actions[f]; ok {
			action = a.String()
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", f, action))
	}
	return lines
}

// Gate checks sync plans before they are applied.
type Gate struct {
	Git StatusChecker
}

// New returns a Gate backed by git.
func New(git *vcs.Git) *Gate {
	return &Gate{Git: git}
}

// Check partitions outcomes and refuses the plan if any outcome failed, or
// if any file that would change in dir is staged, unstaged or untracked.
// When nothing would change git is not consulted, since an empty pathspec
// would match every file.
func (g *Gate) Check(ctx context.Context, op, dir string, outcomes []reconcile.Outcome) (Partition, error) {
	p := Split(outcomes)
	if err := CheckFailures(p, op, ""); err != nil {
		return p, err
	}
	if len(p.Changes) == 0 {
		return p, nil
	}

	files := Names(p.Changes)
	st, err := g.Git.Status(ctx, dir, files)
	if err != nil {
		return p, fmt.Errorf("checking git status of %s: %w", dir, err)
	}
	logger.Log.Debug("git status",
		zap.String("dir", dir),
		zap.Int("checked", len(files)),
		zap.Strings("staged", st.Staged),
		zap.Strings("unstaged", st.Unstaged),
		zap.Strings("untracked", st.Untracked))
	if st.Clean() {
		return p, nil
	}

	actions := make(map[string]reconcile.Action, len(p.Changes))
	for _, c := range p.Changes {
		actions[c.Name] = c.Action
	}
	return p, &DirtyError{Op: op, Status: *st, Actions: actions}
}
