package config

// Manifest is the workflow.yaml file kept at the root of each workflow
// directory in the source repository.
type Manifest struct {
	Version             int           `yaml:"version"`
	Package             Package       `yaml:"package"`
	Layout              []LayoutEntry `yaml:"layout,omitempty"`
	InstallationIgnores []string      `yaml:"installation_ignores,omitempty"`
	Build               Build         `yaml:"build,omitempty"`
	Export              Export        `yaml:"export,omitempty"`
}

// Package describes the workflow for lint, cross-checked against
// raw/info.plist.
type Package struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

// LayoutEntry moves one directory role to a different relative path.
type LayoutEntry struct {
	Role string `yaml:"role"`
	Path string `yaml:"path"`
}

// Build is the command that writes scripts into the dist directory. It is
// run from the workflow directory with ALFRED_WF_DIST and ALFRED_WF_SCRIPTS
// set.
type Build struct {
	Command []string `yaml:"command,omitempty"`
}

// Export controls the .alfredworkflow archive.
type Export struct {
	// Level is a deflate level from 0 to 9. Zero means the tool default.
	Level int `yaml:"level,omitempty"`
}
