// Package apply carries out the Copy and Delete outcomes of a sync plan.
package apply

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/halfyak/alfred-workflows/internal/logger"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
	"github.com/halfyak/alfred-workflows/internal/sandbox"
)

// Applier applies outcomes from a source directory to a target directory.
type Applier struct {
	// Limit bounds the number of concurrent file operations. Zero or less
	// is unbounded.
	Limit int
}

// Apply runs an unbounded Applier.
func Apply(ctx context.Context, sourceDir, targetDir string, changes []reconcile.Outcome) ([]string, error) {
	return Applier{}.Apply(ctx, sourceDir, targetDir, changes)
}

// Apply copies or deletes each change and returns one line per change, in
// input order. Copies preserve the source modification time so that the
// next sync sees the pair as unchanged. Any failure fails the whole call;
// there is no retry and nothing is skipped. Outcomes other than Copy and
// Delete are an internal error.
func (a Applier) Apply(ctx context.Context, sourceDir, targetDir string, changes []reconcile.Outcome) ([]string, error) {
	for _, c := range changes {
		if c.Action != reconcile.Copy && c.Action != reconcile.Delete {
			return nil, fmt.Errorf("internal error: unexpected %s syncing %s", c.Action, filepath.Join(targetDir, c.Name))
		}
	}

	results := make([]string, len(changes))
	g, gctx := errgroup.WithContext(ctx)
	if a.Limit > 0 {
		g.SetLimit(a.Limit)
	}
	for i, c := range changes {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			target := filepath.Join(targetDir, c.Name)
			switch c.Action {
			case reconcile.Copy:
				source := filepath.Join(sourceDir, c.Name)
				if err := sandbox.CopyFile(targetDir, c.Name, source); err != nil {
					return fmt.Errorf("copying %s to %s: %w", source, target, err)
				}
				results[i] = fmt.Sprintf("%s updated from %s", target, source)
			case reconcile.Delete:
				if err := sandbox.Remove(targetDir, c.Name); err != nil {
					return fmt.Errorf("deleting %s: %w", target, err)
				}
				results[i] = fmt.Sprintf("%s deleted", target)
			}
			logger.Log.Debug("applied", zap.String("name", c.Name), zap.String("action", c.Action.String()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
