package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/halfyak/alfred-workflows/internal/apply"
	"github.com/halfyak/alfred-workflows/internal/gate"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
	"github.com/halfyak/alfred-workflows/internal/report"
)

// UpdateEngine pushes the assembled workflow in dist into the installed
// workflow. Installation is not under git, so stale files there abort the
// update instead of being deleted.
type UpdateEngine struct {
	Layout *layout.Layout
	Limit  int
}

// Update reconciles dist -> installation and copies whatever changed.
func (e *UpdateEngine) Update(ctx context.Context) (*UpdateResult, error) {
	l := e.Layout
	installation, dist := l.Installation(), l.Dist()
	res := &UpdateResult{}

	plist, err := infoplist.Read(installation, infoplist.Options{RequireSymlink: true})
	var notLink *infoplist.NotSymlinkError
	switch {
	case errors.Is(err, infoplist.ErrNoDir):
		return nil, report.New(fmt.Sprintf("Can't update without %s link - run link?", installation),
			helpCommand(l.Dir(), "link"))
	case errors.As(err, &notLink):
		return nil, report.Wrap(err, "Can't update, installation is not a link")
	case infoplist.IsTolerable(err):
		res.Warnings = append(res.Warnings, "WARNING: Ignoring missing or corrupted installation/"+infoplist.FileName)
	case err != nil:
		return nil, err
	default:
		if _, err := infoplist.VerifyBundleID(installation, plist, dist); err != nil {
			return nil, report.Wrap(err, "Cannot verify bundleid match - you may need to bundle or link?",
				helpCommand(l.Dir(), "bundle"), helpCommand(l.Dir(), "link"))
		}
	}

	distNames, err := l.Names(layout.Dist)
	if err != nil {
		return nil, report.Wrap(err, "Cannot list "+dist+", run bundle?", helpCommand(l.Dir(), "bundle"))
	}
	installed, err := l.InstallationNames()
	if err != nil {
		return nil, err
	}

	names := reconcile.Union(distNames, installed)
	outcomes, err := reconcile.Reconciler{Limit: e.Limit}.Outcomes(ctx, dist, installation, names, nil)
	if err != nil {
		return nil, err
	}

	p := gate.Split(outcomes)
	if err := gate.CheckFailures(p, "update", " dist -> installation"); err != nil {
		return nil, err
	}
	if stale := p.Of(reconcile.Delete); len(stale) > 0 {
		return nil, staleError(l, installation, stale)
	}

	copies := p.Of(reconcile.Copy)
	if len(copies) == 0 {
		return res, nil
	}
	res.Applied, err = apply.Applier{Limit: e.Limit}.Apply(ctx, dist, installation, copies)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func staleError(l *layout.Layout, installation string, stale []reconcile.Outcome) error {
	details := []string{
		"  Either import, resolve, and then bundle before retrying:",
		"    " + helpCommand(l.Dir(), "import"),
		"    " + helpCommand(l.Dir(), "bundle"),
		"  Or delete the files you don't want:",
	}
	for _, o := range stale {
		details = append(details, "    :; rm "+ShQuote(absPath(filepath.Join(installation, o.Name))))
	}
	return report.New(fmt.Sprintf("Cannot update, found %d stale files in installation", len(stale)), details...)
}
