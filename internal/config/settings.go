package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	settingsDirName  = "alfred-wf"
	settingsFileName = "settings"
	envPrefix        = "ALFRED_WF"
)

// Settings are per-user tool settings, shared by every workflow.
type Settings struct {
	// AlfredPrefs is the path to Alfred's prefs.json. Empty means the
	// standard location under the home directory.
	AlfredPrefs string `mapstructure:"alfred_prefs"`
	// PackagePrefix is prepended to the repository name to form the
	// package name of a workflow.
	PackagePrefix string `mapstructure:"package_prefix"`
	// Git is the git executable.
	Git string `mapstructure:"git"`
	// Concurrency bounds parallel file probes and copies. Zero is unbounded.
	Concurrency int `mapstructure:"concurrency"`
	// CompressionLevel is the default deflate level for exports.
	CompressionLevel int `mapstructure:"compression_level"`
	// WatchDelay is how long update --watch waits for changes to settle.
	WatchDelay time.Duration `mapstructure:"watch_delay"`
	// WorkflowsDir is the directory, relative to the repository root, that
	// holds one directory per workflow.
	WorkflowsDir string `mapstructure:"workflows_dir"`
}

// DefaultSettings are used for keys that are not set anywhere else.
var DefaultSettings = Settings{
	PackagePrefix:    "@halfyak/alfred-workflows-",
	Git:              "git",
	Concurrency:      0,
	CompressionLevel: 9,
	WatchDelay:       300 * time.Millisecond,
	WorkflowsDir:     "workflows",
}

// DefaultSettingsPath returns the user level settings file location, or ""
// if the platform has no user config directory.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, settingsDirName, settingsFileName+".yaml")
}

// LoadSettings layers defaults, the settings file and ALFRED_WF_* environment
// variables, in increasing precedence. An empty path means
// DefaultSettingsPath. A missing file is not an error.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("alfred_prefs", DefaultSettings.AlfredPrefs)
	v.SetDefault("package_prefix", DefaultSettings.PackagePrefix)
	v.SetDefault("git", DefaultSettings.Git)
	v.SetDefault("concurrency", DefaultSettings.Concurrency)
	v.SetDefault("compression_level", DefaultSettings.CompressionLevel)
	v.SetDefault("watch_delay", DefaultSettings.WatchDelay)
	v.SetDefault("workflows_dir", DefaultSettings.WorkflowsDir)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path == "" {
		path = DefaultSettingsPath()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading settings %s: %w", path, err)
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	if s.Concurrency < 0 {
		return nil, fmt.Errorf("settings: concurrency %d must not be negative", s.Concurrency)
	}
	if s.CompressionLevel < 0 || s.CompressionLevel > 9 {
		return nil, fmt.Errorf("settings: compression_level %d out of range 0-9", s.CompressionLevel)
	}
	return &s, nil
}
