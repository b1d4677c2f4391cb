package scaffold

import (
	"strings"
	"testing"
)

func vars() map[string]string {
	return map[string]string{
		"name":         "Safari History",
		"description":  "Search Safari history",
		"bundleid":     "org.halfyak.alfredapp.safari-history",
		"installation": "installation",
		"raw":          "raw",
		"dist":         "dist",
		"export":       "Safari_History.alfredworkflow",
	}
}

func TestRenderSubstitution(t *testing.T) {
	out, err := Render([]byte("{{ .name }} ({{ .bundleid }})"), vars())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != "Safari History (org.halfyak.alfredapp.safari-history)" {
		t.Errorf("got %q", out)
	}
}

func TestRenderMissingVarError(t *testing.T) {
	if _, err := Render([]byte("{{ .missing }}"), vars()); err == nil {
		t.Fatal("expected error for missing variable")
	}
}

func TestRenderInvalidSyntax(t *testing.T) {
	if _, err := Render([]byte("{{ .unclosed"), vars()); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestRenderSkipsBinary(t *testing.T) {
	in := []byte{0x89, 'P', 'N', 'G', 0x00, '{', '{'}
	out, err := Render(in, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if string(out) != string(in) {
		t.Error("binary content should be unchanged")
	}
}

func TestFiles(t *testing.T) {
	files, err := Files(vars())
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files", len(files))
	}
	if files[0].RelPath != ".gitignore" || files[1].RelPath != "README.md" {
		t.Errorf("paths = %q, %q", files[0].RelPath, files[1].RelPath)
	}
	if !strings.Contains(string(files[0].Content), "/installation\n") {
		t.Errorf(".gitignore:\n%s", files[0].Content)
	}
	if !strings.Contains(string(files[1].Content), "Safari_History.alfredworkflow") {
		t.Errorf("README.md:\n%s", files[1].Content)
	}
}

func TestFilesMissingVar(t *testing.T) {
	v := vars()
	delete(v, "dist")
	if _, err := Files(v); err == nil {
		t.Fatal("expected error")
	}
}

func TestMergeVars(t *testing.T) {
	got := MergeVars(map[string]string{"a": "1", "b": "2"}, map[string]string{"b": "3"})
	if got["a"] != "1" || got["b"] != "3" {
		t.Errorf("got %v", got)
	}
}
