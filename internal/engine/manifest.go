package engine

import (
	"path/filepath"

	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
)

// ManifestFor returns the workflow.yaml contents inferred from a workflow's
// info.plist, with the package name formed from prefix.
func ManifestFor(p *infoplist.InfoPlist, prefix string) *config.Manifest {
	version := p.Version
	if version == "" {
		version = infoplist.DefaultVersion
	}
	description := p.Description
	if description == "" {
		description = p.Name
	}
	return &config.Manifest{
		Version: 1,
		Package: config.Package{
			Name:        PackageName(p, prefix),
			Version:     version,
			Description: description,
			Author:      p.CreatedBy,
		},
	}
}

// PackageName is the package name lint expects for a workflow.
func PackageName(p *infoplist.InfoPlist, prefix string) string {
	return prefix + p.RepositoryName()
}

// scaffoldVars returns the template variables for a workflow laid out by l.
func scaffoldVars(p *infoplist.InfoPlist, l *layout.Layout) map[string]string {
	rel := func(path string) string {
		r, err := filepath.Rel(l.Dir(), path)
		if err != nil {
			return path
		}
		return filepath.ToSlash(r)
	}
	return map[string]string{
		"name":         p.Name,
		"description":  p.Description,
		"bundleid":     p.BundleID,
		"installation": rel(l.Installation()),
		"raw":          rel(l.Raw()),
		"dist":         rel(l.Dist()),
		"export":       p.ExportName(),
	}
}
