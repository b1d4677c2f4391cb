package alfredwf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const examplePlist = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>bundleid</key>
	<string>org.example.wf</string>
	<key>name</key>
	<string>Example</string>
</dict>
</plist>
`

func writeAt(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}
}

// setup creates a linked workflow directory and returns it with the
// installed workflow directory.
func setup(t *testing.T) (dir, installed string) {
	t.Helper()
	root := t.TempDir()
	dir = filepath.Join(root, "wf")
	installed = filepath.Join(root, "alfred", "user.workflow.1")
	for _, d := range []string{installed, filepath.Join(dir, "raw"), filepath.Join(dir, "dist")} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Symlink(installed, filepath.Join(dir, "installation")); err != nil {
		t.Fatal(err)
	}
	return dir, installed
}

func TestNewRequiresDir(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty Dir")
	}
}

func TestNewRejectsInvalidManifest(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "workflow.yaml"), []byte("version: 7\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Options{Dir: dir}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestStatusAndUpdate(t *testing.T) {
	dir, installed := setup(t)
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeAt(t, filepath.Join(installed, "info.plist"), examplePlist, base)
	writeAt(t, filepath.Join(dir, "dist", "info.plist"), examplePlist, base)
	writeAt(t, filepath.Join(dir, "dist", "run.sh"), "echo hi", base)

	c, err := New(Options{Dir: dir, Limit: 2})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	status, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Update.Err != nil {
		t.Fatalf("update plan: %v", status.Update.Err)
	}
	var copies int
	for _, o := range status.Update.Outcomes {
		if o.Action == Copy {
			copies++
		}
	}
	if copies != 1 {
		t.Errorf("planned copies = %d, want 1", copies)
	}

	result, err := c.Update(ctx)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(result.Applied) != 1 {
		t.Errorf("applied = %v", result.Applied)
	}
	if _, err := os.Stat(filepath.Join(installed, "run.sh")); err != nil {
		t.Errorf("run.sh not installed: %v", err)
	}
}

func TestOutcomes(t *testing.T) {
	src, tgt := t.TempDir(), t.TempDir()
	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	writeAt(t, filepath.Join(src, "a"), "a", base)
	writeAt(t, filepath.Join(tgt, "b"), "b", base)

	got, err := Outcomes(context.Background(), src, tgt, []string{"a", "b", "c"}, "a")
	if err != nil {
		t.Fatalf("Outcomes: %v", err)
	}
	want := []Action{None, Delete, Delete}
	for i, o := range got {
		if o.Action != want[i] {
			t.Errorf("%s = %s, want %s", o.Name, o.Action, want[i])
		}
	}
}
