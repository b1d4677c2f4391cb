package engine

import (
	"fmt"

	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/report"
)

// LintEngine cross-checks workflow.yaml against raw/info.plist.
type LintEngine struct {
	Layout   *layout.Layout
	Manifest *config.Manifest
	// PackagePrefix is the expected prefix of the package name.
	PackagePrefix string
}

// Lint returns a reportable error listing every problem found.
func (e *LintEngine) Lint() error {
	p, err := infoplist.Read(e.Layout.Raw(), infoplist.Options{})
	if err != nil {
		return report.Wrap(err, "Cannot lint without a readable raw/"+infoplist.FileName)
	}

	problems := config.Validate(e.Manifest)
	problems = append(problems, LintPackage(e.Manifest.Package, p, e.PackagePrefix)...)
	if len(problems) > 0 {
		return report.New(fmt.Sprintf("Lint failed - found %d problem(s):", len(problems)), problems...)
	}
	return nil
}

// LintPackage compares the package fields of workflow.yaml with what can be
// inferred from p.
func LintPackage(pkg config.Package, p *infoplist.InfoPlist, prefix string) []string {
	var problems []string
	check := func(field, value, expected string) {
		switch {
		case value == "":
			problems = append(problems, fmt.Sprintf("Missing 'package.%s' in %s", field, config.ManifestFileName))
		case expected == "":
			problems = append(problems, fmt.Sprintf(
				"Field 'package.%s' in %s cannot be inferred from %s, check Alfred configuration",
				field, config.ManifestFileName, infoplist.FileName))
		case value != expected:
			problems = append(problems, fmt.Sprintf("Field 'package.%s' in %s %q != %q inferred from %s",
				field, config.ManifestFileName, value, expected, infoplist.FileName))
		}
	}
	check("name", pkg.Name, PackageName(p, prefix))
	check("version", pkg.Version, p.Version)
	check("description", pkg.Description, p.Description)
	check("author", pkg.Author, p.CreatedBy)
	return problems
}
