package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/process"
	"github.com/halfyak/alfred-workflows/internal/report"
	"github.com/halfyak/alfred-workflows/internal/sandbox"
)

// BundleEngine assembles dist from built scripts and raw files, so that it
// looks like an installed workflow.
type BundleEngine struct {
	Layout *layout.Layout
	Build  config.Build
	// Stderr receives the build command's stderr. Nil means os.Stderr.
	Stderr io.Writer
}

// Bundle rebuilds dist from scratch. The build command, when configured,
// writes into dist; otherwise the scripts directory is copied as is. Every
// script is made executable, then raw is copied over without clobbering.
func (e *BundleEngine) Bundle(ctx context.Context) (*BundleResult, error) {
	l := e.Layout
	dist, raw, scripts := l.Dist(), l.Raw(), l.Scripts()

	if err := os.RemoveAll(dist); err != nil {
		return nil, fmt.Errorf("clearing %s: %w", dist, err)
	}
	if err := os.MkdirAll(dist, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dist, err)
	}

	res := &BundleResult{}
	if cmd := e.Build.Command; len(cmd) > 0 {
		b := process.Command(cmd[0], cmd[1:]...).
			WithDir(l.Dir()).
			WithEnv("ALFRED_WF_DIST="+absPath(dist), "ALFRED_WF_SCRIPTS="+absPath(scripts))
		b.Stderr = e.Stderr
		out, err := b.Run(ctx)
		if err != nil {
			return nil, report.Wrap(err, "Build command failed, see errors above")
		}
		res.BuildOutput, err = process.DecodeUTF8(out)
		if err != nil {
			return nil, fmt.Errorf("build output: %w", err)
		}
	} else if _, err := os.Stat(scripts); err == nil {
		if err := sandbox.CopyTree(scripts, dist); err != nil {
			return nil, fmt.Errorf("copying %s -> %s: %w", scripts, dist, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	entries, err := os.ReadDir(dist)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if err := os.Chmod(filepath.Join(dist, entry.Name()), 0755); err != nil {
			return nil, err
		}
		res.Built = append(res.Built, entry.Name())
	}

	// dist was cleared, so anything already there is a clash with raw.
	if err := sandbox.CopyTree(raw, dist); err != nil {
		return nil, report.Wrap(err, fmt.Sprintf("Failed to copy raw file(s) %s -> %s, check for clash?", raw, dist))
	}
	return res, nil
}
