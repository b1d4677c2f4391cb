// Package alfred locates the workflows managed by the Alfred application.
package alfred

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/report"
)

// DefaultPrefsPath returns the location of Alfred's prefs.json for the
// current user.
func DefaultPrefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Library", "Application Support", "Alfred", "prefs.json"), nil
}

func jsonTypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// WorkflowsRoot reads prefs.json and returns the directory that holds the
// installed workflows of the current preferences set.
func WorkflowsRoot(prefsPath string) (string, error) {
	data, err := os.ReadFile(prefsPath)
	if err != nil {
		return "", report.Wrap(err, fmt.Sprintf("Cannot read %s", prefsPath))
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", report.Wrap(err, fmt.Sprintf("Failed to parse JSON from %s", prefsPath))
	}
	prefs, ok := doc.(map[string]any)
	if !ok {
		return "", report.New(fmt.Sprintf("Cannot parse %s to a JSON object, found %s", prefsPath, jsonTypeOf(doc)))
	}
	current, ok := prefs["current"]
	if !ok {
		return "", report.New(fmt.Sprintf(`Failed to parse "current" from %s`, prefsPath))
	}
	dir, ok := current.(string)
	if !ok {
		return "", report.New(fmt.Sprintf("Property 'current' from %s was %s != string as expected", prefsPath, jsonTypeOf(current)))
	}
	return filepath.Join(dir, "workflows"), nil
}

// Workflow is an installed workflow and its parsed info.plist.
type Workflow struct {
	Dir       string
	InfoPlist *infoplist.InfoPlist
}

// ListWorkflows reads every workflow directory under root concurrently.
// Workflows that cannot be read are left out and described in warnings.
// Both results keep directory order.
func ListWorkflows(ctx context.Context, root string) (workflows []Workflow, warnings []string, err error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("listing workflows in %s: %w", root, err)
	}

	plists := make([]*infoplist.InfoPlist, len(entries))
	errs := make([]error, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)
	for i, e := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			plists[i], errs[i] = infoplist.Read(filepath.Join(root, e.Name()), infoplist.Options{})
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	for i, e := range entries {
		if errs[i] != nil {
			warnings = append(warnings, fmt.Sprintf("WARNING: ignoring corrupted workflow: %v", errs[i]))
			continue
		}
		workflows = append(workflows, Workflow{Dir: filepath.Join(root, e.Name()), InfoPlist: plists[i]})
	}
	return workflows, warnings, nil
}

// Current lists the workflows of the Alfred installation described by
// prefsPath.
func Current(ctx context.Context, prefsPath string) ([]Workflow, []string, error) {
	root, err := WorkflowsRoot(prefsPath)
	if err != nil {
		return nil, nil, err
	}
	return ListWorkflows(ctx, root)
}
