package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const exampleManifest = `version: 1
package:
  name: "@halfyak/alfred-workflows-safari-history"
  version: 1.2.0
  description: Search Safari history
  author: Half Yak
layout:
  - role: dist
    path: build/dist
installation_ignores:
  - cache.json
build:
  command: ["sh", "-c", "cp src/scripts/* \"$ALFRED_WF_DIST\""]
export:
  level: 6
`

func TestLoadValidManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	if err := os.WriteFile(path, []byte(exampleManifest), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Package.Name != "@halfyak/alfred-workflows-safari-history" {
		t.Errorf("name = %q", m.Package.Name)
	}
	if m.Package.Version != "1.2.0" {
		t.Errorf("version = %q", m.Package.Version)
	}
	if len(m.Layout) != 1 || m.Layout[0].Path != "build/dist" {
		t.Errorf("layout = %+v", m.Layout)
	}
	if len(m.Build.Command) != 3 {
		t.Errorf("build command = %q", m.Build.Command)
	}
	if m.Export.Level != 6 {
		t.Errorf("export level = %d", m.Export.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/workflow.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	if err := os.WriteFile(path, []byte("version: [1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parsing manifest") {
		t.Fatalf("got %v", err)
	}
}

func TestLoadDirMissingManifest(t *testing.T) {
	m, found, err := LoadDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if found {
		t.Error("found should be false")
	}
	if m.Version != 1 {
		t.Errorf("version = %d", m.Version)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	in := &Manifest{
		Version: 1,
		Package: Package{Name: "n", Version: "1.0.0", Description: "d", Author: "a"},
	}
	if err := Save(path, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "layout") || strings.Contains(string(data), "build") {
		t.Errorf("empty sections should be omitted:\n%s", data)
	}
	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.Package != in.Package {
		t.Errorf("got %+v, want %+v", out.Package, in.Package)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    Manifest
		want string
	}{
		{"version", Manifest{Version: 2}, "unsupported version 2"},
		{"missing role", Manifest{Version: 1, Layout: []LayoutEntry{{Path: "x"}}}, "'role' is required"},
		{"unknown role", Manifest{Version: 1, Layout: []LayoutEntry{{Role: "cache", Path: "x"}}}, "unknown role"},
		{"duplicate role", Manifest{Version: 1, Layout: []LayoutEntry{{Role: "raw", Path: "a"}, {Role: "raw", Path: "b"}}}, "duplicate role"},
		{"missing path", Manifest{Version: 1, Layout: []LayoutEntry{{Role: "raw"}}}, "'path' is required"},
		{"escaping path", Manifest{Version: 1, Layout: []LayoutEntry{{Role: "raw", Path: "../raw"}}}, "must stay inside"},
		{"absolute path", Manifest{Version: 1, Layout: []LayoutEntry{{Role: "raw", Path: "/tmp/raw"}}}, "must stay inside"},
		{"ignore with slash", Manifest{Version: 1, InstallationIgnores: []string{"a/b"}}, "bare file name"},
		{"export level", Manifest{Version: 1, Export: Export{Level: 10}}, "out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(&tt.m)
			if !containsSubstring(errs, tt.want) {
				t.Errorf("expected %q in %v", tt.want, errs)
			}
		})
	}
}

func TestValidateValidManifest(t *testing.T) {
	m := &Manifest{Version: 1, Layout: []LayoutEntry{{Role: "scripts", Path: "src/bin"}}}
	if errs := Validate(m); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidationErrorFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFileName)
	if err := os.WriteFile(path, []byte("version: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(ve.Error(), "validation failed") {
		t.Errorf("Error() = %q", ve.Error())
	}
	if len(ve.Details()) != 1 || !strings.HasPrefix(ve.Details()[0], "  - ") {
		t.Errorf("Details() = %q", ve.Details())
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if *s != DefaultSettings {
		t.Errorf("got %+v, want %+v", *s, DefaultSettings)
	}
}

func TestLoadSettingsFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := "alfred_prefs: /tmp/prefs.json\nconcurrency: 4\nwatch_delay: 1s\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ALFRED_WF_CONCURRENCY", "8")
	t.Setenv("ALFRED_WF_PACKAGE_PREFIX", "@me/")

	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if s.AlfredPrefs != "/tmp/prefs.json" {
		t.Errorf("AlfredPrefs = %q", s.AlfredPrefs)
	}
	if s.Concurrency != 8 {
		t.Errorf("Concurrency = %d, env should win", s.Concurrency)
	}
	if s.PackagePrefix != "@me/" {
		t.Errorf("PackagePrefix = %q", s.PackagePrefix)
	}
	if s.WatchDelay != time.Second {
		t.Errorf("WatchDelay = %v", s.WatchDelay)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("compression_level: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSettings(path); err == nil {
		t.Fatal("expected range error")
	}
}

func TestDefaultSettingsPath(t *testing.T) {
	p := DefaultSettingsPath()
	if p == "" {
		t.Skip("no user config dir")
	}
	if !strings.Contains(p, settingsDirName) {
		t.Errorf("path %q does not contain %q", p, settingsDirName)
	}
}

func containsSubstring(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
