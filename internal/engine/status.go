package engine

import (
	"context"
	"fmt"

	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
)

// StatusEngine computes what import and update would do, without touching
// git or the filesystem.
type StatusEngine struct {
	Layout *layout.Layout
	Limit  int
}

// Status plans both directions. A direction that cannot be planned carries
// its error in Plan.Err; Status itself only fails when ctx is cancelled.
func (e *StatusEngine) Status(ctx context.Context) (*StatusResult, error) {
	l := e.Layout
	res := &StatusResult{
		Roles:  roles(l),
		Import: Plan{Source: l.Installation(), Target: l.Raw()},
		Update: Plan{Source: l.Dist(), Target: l.Installation()},
	}
	res.Import.Outcomes, res.Import.Err = e.importPlan(ctx)
	res.Update.Outcomes, res.Update.Err = e.updatePlan(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (e *StatusEngine) importPlan(ctx context.Context) ([]reconcile.Outcome, error) {
	l := e.Layout
	installed, err := l.InstallationNames()
	if err != nil {
		return nil, fmt.Errorf("installation: %w", err)
	}
	rawNames, err := l.Names(layout.Raw)
	if err != nil {
		return nil, fmt.Errorf("raw: %w", err)
	}
	distNames, err := l.Names(layout.Dist)
	if err != nil {
		return nil, fmt.Errorf("dist: %w", err)
	}
	return reconcile.Reconciler{Limit: e.Limit}.Outcomes(ctx, l.Installation(), l.Raw(),
		reconcile.Union(installed, rawNames), reconcile.NewNameSet(distNames...))
}

func (e *StatusEngine) updatePlan(ctx context.Context) ([]reconcile.Outcome, error) {
	l := e.Layout
	distNames, err := l.Names(layout.Dist)
	if err != nil {
		return nil, fmt.Errorf("dist: %w", err)
	}
	installed, err := l.InstallationNames()
	if err != nil {
		return nil, fmt.Errorf("installation: %w", err)
	}
	return reconcile.Reconciler{Limit: e.Limit}.Outcomes(ctx, l.Dist(), l.Installation(),
		reconcile.Union(distNames, installed), nil)
}

func roles(l *layout.Layout) []RolePath {
	names := l.KnownRoles()
	out := make([]RolePath, 0, len(names))
	for _, name := range names {
		p, err := l.Resolve(name)
		if err != nil {
			continue
		}
		out = append(out, RolePath{Role: name, Path: p, Overridden: l.IsOverridden(name)})
	}
	return out
}
