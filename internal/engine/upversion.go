package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/report"
)

// ModifiedChecker lists files with staged or unstaged git changes.
type ModifiedChecker interface {
	TopLevel(ctx context.Context, dir string) (string, error)
	Modified(ctx context.Context, dir string, files []string) (staged, unstaged []string, err error)
}

// UpversionEngine bumps the patch version of raw/info.plist.
type UpversionEngine struct {
	Layout *layout.Layout
	Git    ModifiedChecker
}

// Upversion requires raw to be under git and refuses to overwrite
// uncommitted changes to raw/info.plist. It then bumps its version and returns the new one.
func (e *UpversionEngine) Upversion(ctx context.Context) (string, error) {
	raw := e.Layout.Raw()
	if _, err := e.Git.TopLevel(ctx, raw); err != nil {
		return "", report.Wrap(err, fmt.Sprintf("Cannot upversion, %s is not inside a git working tree", raw))
	}
	staged, unstaged, err := e.Git.Modified(ctx, raw, []string{infoplist.FileName})
	if err != nil {
		return "", fmt.Errorf("checking git status of %s: %w", raw, err)
	}
	if len(staged) > 0 {
		return "", report.New(fmt.Sprintf("Cannot upversion, would overwrite staged file in %s:", raw), staged...)
	}
	if len(unstaged) > 0 {
		return "", report.New(fmt.Sprintf("Cannot upversion, would overwrite unstaged file in %s:", raw), unstaged...)
	}

	path := filepath.Join(raw, infoplist.FileName)
	version, err := infoplist.Upversion(path)
	if err != nil {
		return "", report.Wrap(err, "Cannot upversion "+path)
	}
	return version, nil
}
