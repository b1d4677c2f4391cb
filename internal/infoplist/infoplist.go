// Package infoplist reads the fields of an Alfred workflow info.plist that
// the tooling cares about.
package infoplist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"howett.net/plist"
)

// FileName is the manifest file name inside a workflow directory.
const FileName = "info.plist"

// InfoPlist holds the identifying fields of a workflow. BundleID and Name
// are always set; the rest may be empty.
type InfoPlist struct {
	BundleID    string `json:"bundleid"`
	Name        string `json:"name"`
	CreatedBy   string `json:"createdby,omitempty"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

var nonWord = regexp.MustCompile(`[^\w]`)

// RepositoryName is the directory name used for the workflow in a source
// repository.
func (p *InfoPlist) RepositoryName() string {
	return strings.ToLower(nonWord.ReplaceAllString(p.Name, "-"))
}

// ExportName is the file name of the installable archive. It is URL safe.
func (p *InfoPlist) ExportName() string {
	return nonWord.ReplaceAllString(p.Name, "_") + ".alfredworkflow"
}

// Describe renders the fields as a single line of JSON.
func (p *InfoPlist) Describe() string {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Sprintf("%+v", *p)
	}
	return string(b)
}

// ErrNoDir is returned when the workflow directory does not exist.
var ErrNoDir = errors.New("no workflow directory")

// ErrNoFile is returned when the directory has no info.plist.
var ErrNoFile = errors.New("no " + FileName + " found")

// PathError attaches the path being read to ErrNoDir or ErrNoFile.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return fmt.Sprintf("%s at '%s'", e.Err, e.Path) }

func (e *PathError) Unwrap() error { return e.Err }

// NotSymlinkError is returned when a directory that must be a symlink is not.
type NotSymlinkError struct {
	Path string
	Mode fs.FileMode
}

func (e *NotSymlinkError) Error() string {
	return fmt.Sprintf("expected %s to be a symlink, but it's not (mode = %s)", e.Path, e.Mode)
}

// CorruptError is returned when info.plist cannot be parsed.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt %s found at '%s': %v", FileName, e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// MissingFieldError is returned when a required field is absent.
type MissingFieldError struct {
	Path  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field '%s' in %s at '%s'", e.Field, FileName, e.Path)
}

// Options controls Read.
type Options struct {
	// RequireSymlink fails the read unless the directory itself is a
	// symlink, as an installation link must be.
	RequireSymlink bool
}

// Read parses dir/info.plist. Each failure mode has its own error type so
// callers can decide which ones to tolerate.
func Read(dir string, opts Options) (*InfoPlist, error) {
	info, err := os.Lstat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &PathError{Path: dir, Err: ErrNoDir}
	}
	if err != nil {
		return nil, err
	}
	if opts.RequireSymlink && info.Mode()&fs.ModeSymlink == 0 {
		return nil, &NotSymlinkError{Path: dir, Mode: info.Mode()}
	}

	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &PathError{Path: path, Err: ErrNoFile}
	}
	if err != nil {
		return nil, err
	}
	return Parse(path, data)
}

// Parse decodes plist data read from path.
func Parse(path string, data []byte) (*InfoPlist, error) {
	var fields map[string]any
	if _, err := plist.Unmarshal(data, &fields); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if fields == nil {
		return nil, &CorruptError{Path: path, Err: errors.New("top level is not a dictionary")}
	}

	str := func(key string) (string, bool) {
		s, ok := fields[key].(string)
		return s, ok
	}
	p := &InfoPlist{}
	var ok bool
	if p.BundleID, ok = str("bundleid"); !ok {
		return nil, &MissingFieldError{Path: path, Field: "bundleid"}
	}
	if p.Name, ok = str("name"); !ok {
		return nil, &MissingFieldError{Path: path, Field: "name"}
	}
	p.CreatedBy, _ = str("createdby")
	p.Description, _ = str("description")
	p.Version, _ = str("version")
	return p, nil
}

// IsTolerable reports whether err means the directory exists but its
// info.plist is missing or unusable, as opposed to the directory itself
// being missing or of the wrong kind.
func IsTolerable(err error) bool {
	var corrupt *CorruptError
	var missing *MissingFieldError
	return errors.Is(err, ErrNoFile) || errors.As(err, &corrupt) || errors.As(err, &missing)
}

// VerifyBundleID reads thatDir and checks its bundleid against this.
func VerifyBundleID(thisDir string, this *InfoPlist, thatDir string) (*InfoPlist, error) {
	that, err := Read(thatDir, Options{})
	if err != nil {
		return nil, err
	}
	if this.BundleID != that.BundleID {
		return nil, fmt.Errorf("%s bundleid %s != %s bundleid %s", thisDir, this.BundleID, thatDir, that.BundleID)
	}
	return that, nil
}
