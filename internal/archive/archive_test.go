package archive

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/klauspost/compress/zip"
)

func TestCreate(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "icons"), 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"info.plist":  "<plist/>",
		"main.js":     "run()",
		"icons/a.png": "png",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(src, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Chmod(filepath.Join(src, "main.js"), 0755); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "Example.alfredworkflow")
	entries, err := Create(context.Background(), src, out, 9)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := []string{"icons/", "icons/a.png", "info.plist", "main.js"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v", entries)
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Name, name)
		}
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != files[f.Name] {
			t.Errorf("%s = %q, want %q", f.Name, data, files[f.Name])
		}
		if f.Name == "main.js" && runtime.GOOS != "windows" && f.Mode().Perm() != 0755 {
			t.Errorf("main.js mode = %v", f.Mode())
		}
	}
}

func TestCreateReplacesExisting(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "info.plist"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "wf.alfredworkflow")
	if err := os.WriteFile(out, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Create(context.Background(), src, out, 0); err != nil {
		t.Fatalf("Create: %v", err)
	}
	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("archive not replaced: %v", err)
	}
	zr.Close()
	entries, _ := os.ReadDir(filepath.Dir(out))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestCreateMissingSource(t *testing.T) {
	outDir := t.TempDir()
	_, err := Create(context.Background(), filepath.Join(outDir, "missing"), filepath.Join(outDir, "x.zip"), 6)
	if err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestCreateBadLevel(t *testing.T) {
	if _, err := Create(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "x"), 11); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateCancelled(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "a"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Create(ctx, src, filepath.Join(t.TempDir(), "x"), 6); err == nil {
		t.Fatal("expected cancellation error")
	}
}
