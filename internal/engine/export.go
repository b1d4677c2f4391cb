package engine

import (
	"context"
	"path/filepath"

	"github.com/halfyak/alfred-workflows/internal/archive"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/report"
)

// ExportEngine packs dist into an installable .alfredworkflow archive.
type ExportEngine struct {
	Layout *layout.Layout
	// Level is the deflate level.
	Level int
	// Output overrides the archive path. By default the archive is written
	// into the workflow directory, named after the workflow.
	Output string
}

// Export writes the archive and returns what went into it.
func (e *ExportEngine) Export(ctx context.Context) (*ExportResult, error) {
	dist := e.Layout.Dist()
	p, err := infoplist.Read(dist, infoplist.Options{})
	if err != nil {
		return nil, report.Wrap(err, "Cannot read "+filepath.Join(dist, infoplist.FileName)+" - run bundle?")
	}

	out := e.Output
	if out == "" {
		out = filepath.Join(e.Layout.Dir(), p.ExportName())
	}
	entries, err := archive.Create(ctx, dist, out, e.Level)
	if err != nil {
		return nil, report.Wrap(err, "Cannot assemble "+out)
	}
	return &ExportResult{Path: out, Entries: entries}, nil
}
