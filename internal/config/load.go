package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the manifest file name inside a workflow directory.
const ManifestFileName = "workflow.yaml"

// Roles a layout entry may name.
var knownRoles = []string{"installation", "raw", "dist", "scripts"}

// Load reads and validates a workflow.yaml file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes and validates manifest content read from path.
func Parse(path string, data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if errs := Validate(&m); len(errs) > 0 {
		return nil, &ValidationError{Path: path, Errors: errs}
	}
	return &m, nil
}

// LoadDir reads dir/workflow.yaml. A missing manifest is not an error: the
// result is an empty version 1 manifest and found is false.
func LoadDir(dir string) (m *Manifest, found bool, err error) {
	m, err = Load(filepath.Join(dir, ManifestFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return &Manifest{Version: 1}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// Save writes m as YAML to path.
func Save(path string, m *Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal encodes m with two space indentation.
func Marshal(m *Manifest) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed:\n  - %s", e.Path, strings.Join(e.Errors, "\n  - "))
}

// Details lists each failure, so the error prints well as a report.
func (e *ValidationError) Details() []string {
	lines := make([]string, len(e.Errors))
	for i, msg := range e.Errors {
		lines[i] = "  - " + msg
	}
	return lines
}

// Validate checks a Manifest for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(m *Manifest) []string {
	var errs []string

	if m.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d, only version 1 is supported", m.Version))
	}

	seen := make(map[string]bool)
	for i, e := range m.Layout {
		prefix := fmt.Sprintf("layout[%d]", i)
		if e.Role != "" {
			prefix = fmt.Sprintf("layout for role '%s'", e.Role)
		}
		switch {
		case e.Role == "":
			errs = append(errs, fmt.Sprintf("%s: 'role' is required, must be one of: %s", prefix, strings.Join(knownRoles, ", ")))
		case !isKnownRole(e.Role):
			errs = append(errs, fmt.Sprintf("%s: unknown role, must be one of: %s", prefix, strings.Join(knownRoles, ", ")))
		case seen[e.Role]:
			errs = append(errs, fmt.Sprintf("%s: duplicate role", prefix))
		}
		seen[e.Role] = true

		if e.Path == "" {
			errs = append(errs, fmt.Sprintf("%s: 'path' is required", prefix))
		} else if filepath.IsAbs(e.Path) || escapes(e.Path) {
			errs = append(errs, fmt.Sprintf("%s: path '%s' must stay inside the workflow directory", prefix, e.Path))
		}
	}

	for i, name := range m.InstallationIgnores {
		if name == "" || strings.ContainsAny(name, `/\`) {
			errs = append(errs, fmt.Sprintf("installation_ignores[%d]: '%s' must be a bare file name", i, name))
		}
	}

	if m.Export.Level < 0 || m.Export.Level > 9 {
		errs = append(errs, fmt.Sprintf("export: level %d out of range 0-9", m.Export.Level))
	}

	return errs
}

func isKnownRole(role string) bool {
	for _, r := range knownRoles {
		if r == role {
			return true
		}
	}
	return false
}

func escapes(rel string) bool {
	clean := filepath.Clean(rel)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
