package engine

import (
	"github.com/halfyak/alfred-workflows/internal/archive"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
)

// ImportResult holds the outcome of an import.
type ImportResult struct {
	// Applied has one line per file copied or deleted in raw.
	Applied []string
	// UpToDate is set when there was nothing to do.
	UpToDate bool
}

// UpdateResult holds the outcome of an update.
type UpdateResult struct {
	Warnings []string
	Applied  []string
}

// Plan is the set of outcomes for one sync direction.
type Plan struct {
	Source   string
	Target   string
	Outcomes []reconcile.Outcome
	// Err is set instead of Outcomes when the plan could not be computed,
	// for example because a directory does not exist yet.
	Err error
}

// StatusResult holds both sync plans of a workflow and the directory
// layout they were planned against.
type StatusResult struct {
	Roles  []RolePath
	Import Plan
	Update Plan
}

// RolePath is one resolved directory role.
type RolePath struct {
	Role string
	Path string
	// Overridden is set when the manifest moved the role from its default.
	Overridden bool
}

// LinkResult holds the outcome of a link.
type LinkResult struct {
	Warnings []string
	// Message describes what was confirmed or linked.
	Message string
}

// Bootstrapped describes one workflow directory created by bootstrap.
type Bootstrapped struct {
	Dir          string
	Installation string
	Name         string
}

// BootstrapResult holds the outcome of a bootstrap.
type BootstrapResult struct {
	Warnings []string
	Created  []Bootstrapped
}

// BundleResult holds the outcome of a bundle.
type BundleResult struct {
	// BuildOutput is the standard output of the build command.
	BuildOutput string
	// Built lists the names the build step left in dist.
	Built []string
}

// ExportResult holds the outcome of an export.
type ExportResult struct {
	Path    string
	Entries []archive.Entry
}
