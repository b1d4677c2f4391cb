// Package alfredwf is the Go library API for alfred-wf.
//
// It reconciles the directories of an Alfred workflow kept under source
// control: edits made in Alfred are imported into raw, and the bundled
// workflow in dist is pushed into the installed copy.
//
// # Basic Usage
//
//	client, err := alfredwf.New(alfredwf.Options{Dir: "workflows/my-flow"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// See what would change in either direction
//	status, err := client.Status(ctx)
//
//	// Pull edits made in Alfred into raw
//	imported, err := client.Import(ctx)
//
//	// Push dist into the installed workflow
//	updated, err := client.Update(ctx)
package alfredwf

import (
	"context"
	"fmt"

	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/engine"
	"github.com/halfyak/alfred-workflows/internal/gate"
	"github.com/halfyak/alfred-workflows/internal/layout"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
	"github.com/halfyak/alfred-workflows/internal/vcs"
)

// Importer pulls installation changes into raw.
type Importer interface {
	Import(ctx context.Context) (*ImportResult, error)
}

// Updater pushes dist into installation.
type Updater interface {
	Update(ctx context.Context) (*UpdateResult, error)
}

// Planner reports what Import and Update would do.
type Planner interface {
	Status(ctx context.Context) (*StatusResult, error)
}

// Options configures a Client.
type Options struct {
	// Dir is the workflow directory. Its workflow.yaml is read if present.
	Dir string

	// GitBinary is the git executable. Default: "git".
	GitBinary string

	// Limit bounds concurrent probes and copies. Zero is unbounded.
	Limit int
}

// Client is the main entry point for the library.
// It implements Importer, Updater, and Planner.
type Client struct {
	layout *layout.Layout
	gate   *gate.Gate
	limit  int
}

// New creates a Client for opts.Dir.
func New(opts Options) (*Client, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("alfredwf: Dir is required")
	}
	m, _, err := config.LoadDir(opts.Dir)
	if err != nil {
		return nil, err
	}
	return &Client{
		layout: layout.FromManifest(opts.Dir, m),
		gate:   gate.New(&vcs.Git{Binary: opts.GitBinary}),
		limit:  opts.Limit,
	}, nil
}

// Status plans both sync directions without changing anything.
func (c *Client) Status(ctx context.Context) (*StatusResult, error) {
	return (&engine.StatusEngine{Layout: c.layout, Limit: c.limit}).Status(ctx)
}

// Import reconciles installation into raw, guarded by git.
func (c *Client) Import(ctx context.Context) (*ImportResult, error) {
	return (&engine.ImportEngine{Layout: c.layout, Gate: c.gate, Limit: c.limit}).Import(ctx)
}

// Update copies changed files from dist into installation.
func (c *Client) Update(ctx context.Context) (*UpdateResult, error) {
	return (&engine.UpdateEngine{Layout: c.layout, Limit: c.limit}).Update(ctx)
}

// Outcomes decides, for each name, how to bring targetDir in line with
// sourceDir. Names in ignores are not copied into targetDir. Results are in
// the order of names.
func Outcomes(ctx context.Context, sourceDir, targetDir string, names []string, ignores ...string) ([]Outcome, error) {
	return reconcile.Outcomes(ctx, sourceDir, targetDir, names, reconcile.NewNameSet(ignores...))
}

// Compile-time interface checks.
var (
	_ Importer = (*Client)(nil)
	_ Updater  = (*Client)(nil)
	_ Planner  = (*Client)(nil)
)
