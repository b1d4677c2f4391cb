// Package layout maps the directory roles of a workflow source tree to
// paths.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/halfyak/alfred-workflows/internal/config"
)

// Directory roles.
const (
	// Installation is a symlink to the workflow directory Alfred manages.
	Installation = "installation"
	// Raw holds the non-script files exported from Alfred, such as
	// info.plist and icons, under git control.
	Raw = "raw"
	// Dist is the assembled workflow: built scripts plus raw files.
	Dist = "dist"
	// Scripts holds the script sources passed to the build command.
	Scripts = "scripts"
)

// PrefsPlist is the per-user configuration file Alfred keeps beside an
// installed workflow. It is never synced.
const PrefsPlist = "prefs.plist"

var builtinRoles = map[string]string{
	Installation: "installation",
	Raw:          "raw",
	Dist:         "dist",
	Scripts:      filepath.Join("src", "scripts"),
}

// Layout resolves roles to paths under a workflow directory.
type Layout struct {
	dir     string
	roles   map[string]string
	ignores []string
}

// New creates a Layout for dir with built-in roles, overridden by entries.
// Installation listings also hide the given extra names.
func New(dir string, entries []config.LayoutEntry, installationIgnores []string) *Layout {
	roles := make(map[string]string, len(builtinRoles))
	for role, rel := range builtinRoles {
		roles[role] = rel
	}
	for _, e := range entries {
		roles[e.Role] = e.Path
	}
	return &Layout{dir: dir, roles: roles, ignores: installationIgnores}
}

// FromManifest creates a Layout for dir configured by m.
func FromManifest(dir string, m *config.Manifest) *Layout {
	return New(dir, m.Layout, m.InstallationIgnores)
}

// Dir returns the workflow directory.
func (l *Layout) Dir() string { return l.dir }

// Resolve returns the path for role, joined to the workflow directory.
func (l *Layout) Resolve(role string) (string, error) {
	rel, ok := l.roles[role]
	if !ok {
		return "", fmt.Errorf("unknown directory role '%s', known roles: %v", role, l.KnownRoles())
	}
	return filepath.Join(l.dir, rel), nil
}

func (l *Layout) must(role string) string {
	p, err := l.Resolve(role)
	if err != nil {
		panic(err)
	}
	return p
}

// Installation returns the installation link path.
func (l *Layout) Installation() string { return l.must(Installation) }

// Raw returns the raw directory path.
func (l *Layout) Raw() string { return l.must(Raw) }

// Dist returns the dist directory path.
func (l *Layout) Dist() string { return l.must(Dist) }

// Scripts returns the scripts directory path.
func (l *Layout) Scripts() string { return l.must(Scripts) }

// KnownRoles returns all role names, sorted.
func (l *Layout) KnownRoles() []string {
	names := make([]string, 0, len(l.roles))
	for name := range l.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsOverridden reports whether role maps somewhere other than its default.
func (l *Layout) IsOverridden(role string) bool {
	return builtinRoles[role] != l.roles[role]
}

// Names lists the top-level entry names of the directory for role, in
// directory order.
func (l *Layout) Names(role string) ([]string, error) {
	dir, err := l.Resolve(role)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

// InstallationNames lists the installation directory, leaving out
// prefs.plist and any configured installation ignores.
func (l *Layout) InstallationNames() ([]string, error) {
	names, err := l.Names(Installation)
	if err != nil {
		return nil, err
	}
	hidden := map[string]bool{PrefsPlist: true}
	for _, n := range l.ignores {
		hidden[n] = true
	}
	out := names[:0]
	for _, n := range names {
		if !hidden[n] {
			out = append(out, n)
		}
	}
	return out, nil
}
