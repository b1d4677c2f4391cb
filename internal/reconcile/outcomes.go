package reconcile

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/halfyak/alfred-workflows/internal/logger"
)

// Reconciler computes sync outcomes between two directories.
type Reconciler struct {
	// Limit bounds the number of concurrent probes. Zero or less is unbounded.
	Limit int
}

// Outcomes runs an unbounded Reconciler.
func Outcomes(ctx context.Context, sourceDir, targetDir string, names []string, ignores NameSet) ([]Outcome, error) {
	return Reconciler{}.Outcomes(ctx, sourceDir, targetDir, names, ignores)
}

// Outcomes probes every name in both directories and classifies it.
// The result has one Outcome per name, in the order of names. A probe error
// other than "not found" fails the whole call.
func (r Reconciler) Outcomes(ctx context.Context, sourceDir, targetDir string, names []string, ignores NameSet) ([]Outcome, error) {
	srcProbes := make([]Probe, len(names))
	tgtProbes := make([]Probe, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if r.Limit > 0 {
		g.SetLimit(r.Limit)
	}
	for i, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p, err := ProbeEntry(sourceDir, name)
			srcProbes[i] = p
			return err
		})
		g.Go(func() error {
			p, err := ProbeEntry(targetDir, name)
			tgtProbes[i] = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(names))
	for i, name := range names {
		outcomes[i] = Classify(sourceDir, targetDir, name, srcProbes[i], tgtProbes[i], ignores)
		logger.Log.Debug("classified",
			zap.String("name", name),
			zap.String("action", outcomes[i].Action.String()),
			zap.String("source", sourceDir),
			zap.String("target", targetDir))
	}
	return outcomes, nil
}
