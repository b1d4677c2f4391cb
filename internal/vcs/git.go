// Package vcs queries a git working tree through the git command line.
package vcs

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/halfyak/alfred-workflows/internal/process"
)

// Git runs git subcommands. The zero value uses "git" from PATH.
type Git struct {
	Binary string
}

// Status lists files in one directory that differ from what git has
// committed. Paths are relative to the directory queried.
type Status struct {
	Staged    []string
	Unstaged  []string
	Untracked []string
}

// Clean reports whether no files were found in any category.
func (s *Status) Clean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

func (g *Git) binary() string {
	if g == nil || g.Binary == "" {
		return "git"
	}
	return g.Binary
}

// run executes git with pathspecs taken literally, so a file name holding
// glob characters matches only itself.
func (g *Git) run(ctx context.Context, args ...string) ([]byte, error) {
	return process.Command(g.binary(), args...).
		WithEnv("GIT_TERMINAL_PROMPT=0", "GIT_LITERAL_PATHSPECS=1").
		Run(ctx)
}

// Cz runs "git -C dir cmd -z args..." and splits the NUL delimited output.
func (g *Git) Cz(ctx context.Context, dir, cmd string, args ...string) ([]string, error) {
	argv := append([]string{"-C", dir, cmd, "-z"}, args...)
	out, err := g.run(ctx, argv...)
	if err != nil {
		return nil, err
	}
	files, err := process.SplitOn(out, 0)
	if err != nil {
		return nil, fmt.Errorf("git %s output in %s: %w", cmd, dir, err)
	}
	return files, nil
}

// UpdateIndex refreshes the index stat information for the repository
// containing dir. Files copied with preserved timestamps otherwise show up
// as unstaged until the next refresh.
func (g *Git) UpdateIndex(ctx context.Context, dir string) error {
	_, err := g.run(ctx, "-C", dir, "update-index", "-q", "--refresh")
	if err != nil {
		return fmt.Errorf("refreshing git index: %w", err)
	}
	return nil
}

// Staged lists files with changes in the index relative to HEAD.
func (g *Git) Staged(ctx context.Context, dir string, files []string) ([]string, error) {
	return g.Cz(ctx, dir, "diff-index", withPathspec([]string{"--name-only", "--relative", "--cached", "HEAD"}, files)...)
}

// Unstaged lists files whose working tree content differs from the index.
func (g *Git) Unstaged(ctx context.Context, dir string, files []string) ([]string, error) {
	return g.Cz(ctx, dir, "diff-files", withPathspec([]string{"--name-only", "--relative"}, files)...)
}

// Untracked lists files git does not know about and does not ignore.
func (g *Git) Untracked(ctx context.Context, dir string, files []string) ([]string, error) {
	return g.Cz(ctx, dir, "ls-files", withPathspec([]string{"--others", "--exclude-standard"}, files)...)
}

// Status refreshes the index and then runs the staged, unstaged and
// untracked queries concurrently, each limited to files.
func (g *Git) Status(ctx context.Context, dir string, files []string) (*Status, error) {
	if err := g.UpdateIndex(ctx, dir); err != nil {
		return nil, err
	}
	var st Status
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		st.Staged, err = g.Staged(ctx, dir, files)
		return err
	})
	eg.Go(func() (err error) {
		st.Unstaged, err = g.Unstaged(ctx, dir, files)
		return err
	})
	eg.Go(func() (err error) {
		st.Untracked, err = g.Untracked(ctx, dir, files)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

// Modified lists files among files that are staged or unstaged, without
// consulting untracked files.
func (g *Git) Modified(ctx context.Context, dir string, files []string) (staged, unstaged []string, err error) {
	if err := g.UpdateIndex(ctx, dir); err != nil {
		return nil, nil, err
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		staged, err = g.Staged(ctx, dir, files)
		return err
	})
	eg.Go(func() (err error) {
		unstaged, err = g.Unstaged(ctx, dir, files)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return staged, unstaged, nil
}

// TopLevel returns the root of the working tree containing dir.
func (g *Git) TopLevel(ctx context.Context, dir string) (string, error) {
	out, err := g.run(ctx, "-C", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("locating git working tree for %s: %w", dir, err)
	}
	s, err := process.DecodeUTF8(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// withPathspec appends "--" and files. The separator is always present so a
// file name can never be read as an option or revision.
func withPathspec(args, files []string) []string {
	out := make([]string, 0, len(args)+1+len(files))
	out = append(out, args...)
	out = append(out, "--")
	return append(out, files...)
}
