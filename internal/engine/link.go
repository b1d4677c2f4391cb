package engine

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/halfyak/alfred-workflows/internal/alfred"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/report"
	"github.com/halfyak/alfred-workflows/internal/sandbox"
)

// LinkEngine points the installation symlink at the workflow Alfred has
// installed with the same bundleid as raw.
type LinkEngine struct {
	Layout *layout.Layout
	// PrefsPath is Alfred's prefs.json.
	PrefsPath string
}

// Link confirms an existing installation link, or creates one when exactly
// one installed workflow matches.
func (e *LinkEngine) Link(ctx context.Context) (*LinkResult, error) {
	l := e.Layout
	installation, raw := l.Installation(), l.Raw()
	relink := []string{
		"    :; rm -f " + ShQuote(absPath(installation)),
		"    " + helpCommand(l.Dir(), "link"),
	}

	linked, err := infoplist.Read(installation, infoplist.Options{RequireSymlink: true})
	if err == nil {
		rawPlist, err := infoplist.VerifyBundleID(installation, linked, raw)
		if err != nil {
			return nil, report.Wrap(err,
				"It looks like this workflow is linked to the wrong installation, maybe remove and relink?",
				relink...)
		}
		return &LinkResult{Message: "Confirmed linked installation matches bundleid for " + rawPlist.Describe()}, nil
	}
	if !errors.Is(err, infoplist.ErrNoDir) {
		return nil, report.Wrap(err,
			"The linked workflow is corrupted? Try update, or maybe remove and relink?",
			append([]string{"    " + helpCommand(l.Dir(), "update")}, relink...)...)
	}

	workflows, warnings, err := alfred.Current(ctx, e.PrefsPath)
	if err != nil {
		return nil, err
	}
	res := &LinkResult{Warnings: warnings}

	rawPlist, err := infoplist.Read(raw, infoplist.Options{})
	if err != nil {
		return nil, report.Wrap(err, "Cannot link without a readable raw/"+infoplist.FileName)
	}

	var matches []alfred.Workflow
	for _, w := range workflows {
		if w.InfoPlist.BundleID == rawPlist.BundleID {
			matches = append(matches, w)
		}
	}
	switch len(matches) {
	case 0:
		return nil, report.New(
			"Cannot find a matching installed workflow, use export to build, install via Alfred, and retry link",
			fmt.Sprintf("    :; ( cd %s && alfred-wf bundle && alfred-wf export && open %s; )",
				ShQuote(absPath(l.Dir())), ShQuote(rawPlist.ExportName())))
	case 1:
	default:
		found := make([]string, len(matches))
		for i, m := range matches {
			found[i] = fmt.Sprintf("  Found %s in %s", m.InfoPlist.Describe(), m.Dir)
		}
		return nil, report.New(
			"Found multiple matching workflows, you might need to clean up the duplicates in Alfred?", found...)
	}

	m := matches[0]
	rel, err := filepath.Rel(l.Dir(), installation)
	if err != nil {
		return nil, err
	}
	if err := sandbox.Symlink(l.Dir(), rel, m.Dir); err != nil {
		return nil, report.Wrap(err, "Failed to create symlink "+installation)
	}
	res.Message = fmt.Sprintf("Linked to %s in %s", m.InfoPlist.Describe(), m.Dir)
	return res, nil
}
