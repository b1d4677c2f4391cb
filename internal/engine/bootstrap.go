package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/alfred"
	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/logger"
	"github.com/halfyak/alfred-workflows/internal/report"
	"github.com/halfyak/alfred-workflows/internal/sandbox"
	"github.com/halfyak/alfred-workflows/internal/scaffold"
)

// BootstrapEngine creates a source directory for each installed workflow
// that is not yet in the repository.
type BootstrapEngine struct {
	// Root is the repository directory holding one directory per workflow.
	Root string
	// PrefsPath is Alfred's prefs.json.
	PrefsPath string
	// PackagePrefix forms package names in the generated workflow.yaml.
	PackagePrefix string
}

// Bootstrap sets up every installed workflow whose bundleid starts with
// one of prefixes and whose bundleid no directory under Root already has.
func (e *BootstrapEngine) Bootstrap(ctx context.Context, prefixes []string) (*BootstrapResult, error) {
	if len(prefixes) == 0 {
		return nil, report.New("Specify at least one bundleid prefix to bootstrap")
	}
	if err := os.MkdirAll(e.Root, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", e.Root, err)
	}

	res := &BootstrapResult{}
	known, warnings, err := e.sourceBundleIDs()
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, warnings...)

	workflows, warnings, err := alfred.Current(ctx, e.PrefsPath)
	if err != nil {
		return nil, err
	}
	res.Warnings = append(res.Warnings, warnings...)

	for _, w := range workflows {
		if known[w.InfoPlist.BundleID] || !hasAnyPrefix(w.InfoPlist.BundleID, prefixes) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		created, err := e.bootstrapOne(w)
		if err != nil {
			return nil, err
		}
		known[w.InfoPlist.BundleID] = true
		res.Created = append(res.Created, *created)
	}
	return res, nil
}

// sourceBundleIDs reads the raw bundleid of every workflow directory under
// Root. Raw is used so that workflows need not be installed.
func (e *BootstrapEngine) sourceBundleIDs() (map[string]bool, []string, error) {
	entries, err := os.ReadDir(e.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("listing %s: %w", e.Root, err)
	}
	known := make(map[string]bool, len(entries))
	var warnings []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(e.Root, entry.Name())
		m, _, err := config.LoadDir(dir)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("WARNING: ignoring %s: %v", dir, err))
			continue
		}
		p, err := infoplist.Read(layout.FromManifest(dir, m).Raw(), infoplist.Options{})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("WARNING: ignoring %s: %v", dir, err))
			continue
		}
		known[p.BundleID] = true
	}
	return known, warnings, nil
}

func (e *BootstrapEngine) bootstrapOne(w alfred.Workflow) (*Bootstrapped, error) {
	p := w.InfoPlist
	name := p.RepositoryName()
	dir := filepath.Join(e.Root, name)
	logger.Log.Info("bootstrapping", zap.String("name", p.Name), zap.String("from", w.Dir), zap.String("dir", dir))

	if err := os.Mkdir(dir, 0755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, report.New(fmt.Sprintf("Cannot bootstrap %s, %s already exists", p.Describe(), dir))
		}
		return nil, err
	}

	m := ManifestFor(p, e.PackagePrefix)
	l := layout.FromManifest(dir, m)
	rel := func(path string) string {
		r, _ := filepath.Rel(dir, path)
		return r
	}

	if err := sandbox.Symlink(dir, rel(l.Installation()), w.Dir); err != nil {
		return nil, report.Wrap(err, "Failed to create symlink "+l.Installation())
	}
	data, err := config.Marshal(m)
	if err != nil {
		return nil, err
	}
	if err := sandbox.WriteFile(dir, config.ManifestFileName, data, 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", config.ManifestFileName, err)
	}

	files, err := scaffold.Files(scaffoldVars(p, l))
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := sandbox.WriteFile(dir, f.RelPath, f.Content, 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", f.RelPath, err)
		}
	}
	if err := sandbox.MkdirAll(dir, rel(l.Scripts()), 0755); err != nil {
		return nil, err
	}

	// import needs raw/info.plist to match bundleids against.
	if err := sandbox.MkdirAll(dir, rel(l.Raw()), 0755); err != nil {
		return nil, err
	}
	if err := sandbox.CopyFile(dir, filepath.Join(rel(l.Raw()), infoplist.FileName),
		filepath.Join(w.Dir, infoplist.FileName)); err != nil {
		return nil, fmt.Errorf("copying %s: %w", infoplist.FileName, err)
	}

	return &Bootstrapped{Dir: dir, Installation: w.Dir, Name: p.Name}, nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
