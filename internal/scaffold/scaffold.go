// Package scaffold renders the starter files written when a workflow is
// bootstrapped into the repository.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"text/template"
	"unicode/utf8"
)

//go:embed templates/*.tmpl
var templates embed.FS

// File is a rendered file, relative to the workflow directory.
type File struct {
	RelPath string
	Content []byte
}

// Render applies text/template substitution to content. Binary content is
// returned unchanged. Referencing a variable that is not in vars is an
// error.
func Render(content []byte, vars map[string]string) ([]byte, error) {
	if !utf8.Valid(content) || bytes.IndexByte(content, 0) >= 0 {
		return content, nil
	}

	tmpl, err := template.New("").Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}
	return buf.Bytes(), nil
}

// Files renders every built-in template with vars. A template named
// "gitignore.tmpl" becomes ".gitignore"; others drop the ".tmpl" suffix.
// The result is sorted by path.
func Files(vars map[string]string) ([]File, error) {
	entries, err := fs.ReadDir(templates, "templates")
	if err != nil {
		return nil, err
	}
	files := make([]File, 0, len(entries))
	for _, e := range entries {
		raw, err := fs.ReadFile(templates, path.Join("templates", e.Name()))
		if err != nil {
			return nil, err
		}
		out, err := Render(raw, vars)
		if err != nil {
			return nil, fmt.Errorf("file '%s': %w", e.Name(), err)
		}
		files = append(files, File{RelPath: outputName(e.Name()), Content: out})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

func outputName(name string) string {
	name = strings.TrimSuffix(name, ".tmpl")
	if name == "gitignore" {
		return ".gitignore"
	}
	return name
}

// MergeVars merges base with overrides. Keys in overrides win.
func MergeVars(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
