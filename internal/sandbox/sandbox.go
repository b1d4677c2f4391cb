// Package sandbox performs file mutations that are confined to a root
// directory. Every relative path is resolved through symlinks and rejected
// if it lands outside the root.
package sandbox

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EscapeError is returned when a path resolves outside its root.
type EscapeError struct {
	Path     string
	Resolved string
	Root     string
}

func (e *EscapeError) Error() string {
	return fmt.Sprintf("path '%s' resolves to '%s' which is outside the root '%s'", e.Path, e.Resolved, e.Root)
}

// Resolve returns the absolute, symlink-resolved location of rel inside
// root. rel need not exist yet. The root itself may be a symlink, which is
// how an installed workflow directory is reached.
func Resolve(root, rel string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving root symlinks: %w", err)
	}

	resolved, err := resolveExisting(filepath.Clean(filepath.Join(realRoot, rel)))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if resolved != realRoot && !strings.HasPrefix(resolved, realRoot+string(filepath.Separator)) {
		return "", &EscapeError{Path: rel, Resolved: resolved, Root: realRoot}
	}
	return resolved, nil
}

// resolveExisting resolves symlinks in the longest existing prefix of path
// and appends the rest unchanged.
func resolveExisting(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	dir, base := filepath.Dir(path), filepath.Base(path)
	if dir == path {
		return path, nil
	}
	resolvedDir, err := resolveExisting(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedDir, base), nil
}

// WriteFile atomically replaces root/rel with content, creating parent
// directories as needed.
func WriteFile(root, rel string, content []byte, perm os.FileMode) error {
	dst, err := Resolve(root, rel)
	if err != nil {
		return err
	}
	if _, err := Resolve(root, filepath.Dir(rel)); err != nil {
		return fmt.Errorf("parent directory escapes root: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(dst), err)
	}
	return atomicWrite(dst, perm, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	})
}

// CopyFile atomically replaces root/rel with the content and permission
// bits of src, then sets its modification time to that of src. The parent
// directory of rel must already exist.
func CopyFile(root, rel, src string) error {
	dst, err := Resolve(root, rel)
	if err != nil {
		return err
	}
	return copyTo(src, dst)
}

func copyTo(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a plain file", src)
	}

	if err := atomicWrite(dst, info.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	}); err != nil {
		return err
	}
	// A zero access time leaves it unchanged.
	if err := os.Chtimes(dst, time.Time{}, info.ModTime()); err != nil {
		return fmt.Errorf("setting timestamps on %s: %w", dst, err)
	}
	return nil
}

// atomicWrite writes through a temp file in the destination directory, so
// the rename stays on one filesystem.
func atomicWrite(dst string, perm os.FileMode, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".alfred-wf-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}
	success = true
	return nil
}

// CopyTree copies every file under srcDir into root, recreating
// subdirectories. It never overwrites: an existing destination entry is an
// error. Permission bits and modification times are preserved.
func CopyTree(srcDir, root string) error {
	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dst, err := Resolve(root, rel)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := os.Mkdir(dst, 0755); err != nil && !errors.Is(err, fs.ErrExist) {
				return err
			}
			return nil
		}
		if _, err := os.Lstat(dst); err == nil {
			return fmt.Errorf("%s already exists", dst)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return copyTo(path, dst)
	})
}

// Remove deletes root/rel. A path that is already gone is not an error.
func Remove(root, rel string) error {
	path, err := Resolve(root, rel)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// MkdirAll creates root/rel and any missing parents.
func MkdirAll(root, rel string, perm os.FileMode) error {
	path, err := Resolve(root, rel)
	if err != nil {
		return err
	}
	return os.MkdirAll(path, perm)
}

// Symlink creates root/rel pointing at target. The target may be anywhere;
// only the link itself is confined.
func Symlink(root, rel, target string) error {
	path, err := Resolve(root, rel)
	if err != nil {
		return err
	}
	return os.Symlink(target, path)
}
