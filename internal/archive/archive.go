// Package archive writes the .alfredworkflow file, a zip of the assembled
// workflow directory.
package archive

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/logger"
)

// Entry describes one member written to the archive.
type Entry struct {
	Name string
	Size int64
}

// Create zips every entry under srcDir into archivePath, replacing it
// atomically. Member names are relative to srcDir with forward slashes.
// Symlinks are stored as links. level is a deflate level (0-9).
func Create(ctx context.Context, srcDir, archivePath string, level int) (entries []Entry, retErr error) {
	if level < flate.NoCompression || level > flate.BestCompression {
		return nil, fmt.Errorf("compression level %d out of range", level)
	}

	tmp, err := os.CreateTemp(filepath.Dir(archivePath), ".alfred-wf-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	zw := zip.NewWriter(bw)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		e, err := add(zw, path, filepath.ToSlash(rel), info)
		if err != nil {
			return err
		}
		logger.Log.Debug("archived", zap.String("name", e.Name), zap.Int64("size", e.Size))
		entries = append(entries, e)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("archiving %s: %w", srcDir, walkErr)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing zip writer: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return nil, fmt.Errorf("flushing archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp archive: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return nil, err
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		return nil, fmt.Errorf("renaming temp archive to %s: %w", archivePath, err)
	}
	return entries, nil
}

func add(zw *zip.Writer, path, name string, info fs.FileInfo) (Entry, error) {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return Entry{}, fmt.Errorf("zip header for %s: %w", name, err)
	}
	header.Name = name

	switch {
	case info.IsDir():
		header.Name += "/"
		header.Method = zip.Store
		_, err := zw.CreateHeader(header)
		return Entry{Name: header.Name}, err

	case info.Mode()&fs.ModeSymlink != 0:
		target, err := os.Readlink(path)
		if err != nil {
			return Entry{}, err
		}
		header.Method = zip.Store
		w, err := zw.CreateHeader(header)
		if err != nil {
			return Entry{}, err
		}
		_, err = io.WriteString(w, target)
		return Entry{Name: name, Size: int64(len(target))}, err

	case info.Mode().IsRegular():
		f, err := os.Open(path)
		if err != nil {
			return Entry{}, err
		}
		defer func() { _ = f.Close() }()
		header.Method = zip.Deflate
		w, err := zw.CreateHeader(header)
		if err != nil {
			return Entry{}, err
		}
		n, err := io.Copy(w, f)
		return Entry{Name: name, Size: n}, err

	default:
		return Entry{}, fmt.Errorf("%s is not a file, directory or symlink", path)
	}
}
