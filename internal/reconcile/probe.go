package reconcile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ProbeEntry lstats name inside dir. A missing entry is reported as an
// absent Probe, not an error. Symlinks are not followed, so a link is
// present but not a file.
func ProbeEntry(dir, name string) (Probe, error) {
	path := filepath.Join(dir, name)
	fi, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Probe{}, nil
	}
	if err != nil {
		return Probe{}, fmt.Errorf("probing %s: %w", path, err)
	}
	return Probe{
		Present: true,
		IsFile:  fi.Mode().IsRegular(),
		ModTime: fi.ModTime(),
	}, nil
}
