package layout

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/halfyak/alfred-workflows/internal/config"
)

func TestBuiltinRoles(t *testing.T) {
	l := New("wf", nil, nil)
	tests := []struct {
		role string
		want string
	}{
		{Installation, filepath.Join("wf", "installation")},
		{Raw, filepath.Join("wf", "raw")},
		{Dist, filepath.Join("wf", "dist")},
		{Scripts, filepath.Join("wf", "src", "scripts")},
	}
	for _, tt := range tests {
		got, err := l.Resolve(tt.role)
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.role, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestOverride(t *testing.T) {
	l := New(".", []config.LayoutEntry{{Role: Dist, Path: "build/out"}}, nil)
	if got := l.Dist(); got != filepath.Join("build", "out") {
		t.Errorf("Dist = %q", got)
	}
	if !l.IsOverridden(Dist) {
		t.Error("dist should be overridden")
	}
	if l.IsOverridden(Raw) {
		t.Error("raw should not be overridden")
	}
}

func TestResolveUnknownRole(t *testing.T) {
	_, err := New(".", nil, nil).Resolve("cache")
	if err == nil || !strings.Contains(err.Error(), "unknown directory role") {
		t.Fatalf("got %v", err)
	}
}

func TestKnownRoles(t *testing.T) {
	want := []string{Dist, Installation, Raw, Scripts}
	if got := New(".", nil, nil).KnownRoles(); !slices.Equal(got, want) {
		t.Errorf("KnownRoles = %q", got)
	}
}

func TestInstallationNamesHidesPrefs(t *testing.T) {
	dir := t.TempDir()
	inst := filepath.Join(dir, "installation")
	if err := os.MkdirAll(inst, 0755); err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"info.plist", "prefs.plist", "cache.json", "main.js"} {
		if err := os.WriteFile(filepath.Join(inst, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	l := FromManifest(dir, &config.Manifest{Version: 1, InstallationIgnores: []string{"cache.json"}})
	got, err := l.InstallationNames()
	if err != nil {
		t.Fatal(err)
	}
	slices.Sort(got)
	if want := []string{"info.plist", "main.js"}; !slices.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}

	all, err := l.Names(Installation)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 4 {
		t.Errorf("Names should not hide anything, got %q", all)
	}
}

func TestNamesMissingDir(t *testing.T) {
	if _, err := New(t.TempDir(), nil, nil).Names(Dist); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
