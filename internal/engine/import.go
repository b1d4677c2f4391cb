package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/apply"
	"github.com/halfyak/alfred-workflows/internal/gate"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/logger"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
	"github.com/halfyak/alfred-workflows/internal/report"
)

// ImportEngine pulls edits made in the Alfred UI from installation back
// into raw. Names present in dist are built outputs and are left alone.
type ImportEngine struct {
	Layout *layout.Layout
	Gate   *gate.Gate
	// Limit bounds concurrent probes and copies. Zero is unbounded.
	Limit int
}

// Import reconciles installation -> raw and applies the plan once no
// outcome fails and git could restore everything touched.
func (e *ImportEngine) Import(ctx context.Context) (*ImportResult, error) {
	l := e.Layout
	installation, raw, dist := l.Installation(), l.Raw(), l.Dist()

	plist, err := infoplist.Read(installation, infoplist.Options{RequireSymlink: true})
	if errors.Is(err, infoplist.ErrNoDir) {
		return nil, report.New("No installation link and it is required to import - run link?",
			helpCommand(l.Dir(), "link"))
	}
	if err != nil {
		return nil, report.Wrap(err, "Problems with installation/"+infoplist.FileName+", run bundle and/or update?",
			helpCommand(l.Dir(), "bundle"), helpCommand(l.Dir(), "update"))
	}
	if _, err := infoplist.VerifyBundleID(installation, plist, raw); err != nil {
		return nil, report.Wrap(err, "installation does not appear linked correctly - run link?",
			helpCommand(l.Dir(), "link"))
	}

	installed, err := l.InstallationNames()
	if err != nil {
		return nil, err
	}
	rawNames, err := l.Names(layout.Raw)
	if err != nil {
		return nil, err
	}
	distNames, err := l.Names(layout.Dist)
	if err != nil {
		return nil, report.Wrap(err, "Cannot list "+dist+", run bundle?", helpCommand(l.Dir(), "bundle"))
	}

	names := reconcile.Union(installed, rawNames)
	ignores := reconcile.NewNameSet(distNames...)
	outcomes, err := reconcile.Reconciler{Limit: e.Limit}.Outcomes(ctx, installation, raw, names, ignores)
	if err != nil {
		return nil, err
	}
	logger.Log.Debug("import plan", zap.Int("names", len(names)), zap.Int("ignored", len(ignores)))

	p, err := e.Gate.Check(ctx, "import", raw, outcomes)
	if err != nil {
		return nil, err
	}
	if len(p.Changes) == 0 {
		return &ImportResult{UpToDate: true}, nil
	}

	applied, err := apply.Applier{Limit: e.Limit}.Apply(ctx, installation, raw, p.Changes)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Applied: applied}, nil
}
