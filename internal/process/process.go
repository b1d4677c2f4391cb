// Package process runs child processes and decodes their output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/logger"
)

// Builder describes a child process. Stdout is captured; stderr passes
// through to Stderr (os.Stderr when nil).
type Builder struct {
	Exe    string
	Args   []string
	Dir    string
	Env    []string
	Stderr io.Writer
}

// Command returns a Builder for exe with args.
func Command(exe string, args ...string) *Builder {
	return &Builder{Exe: exe, Args: args}
}

// WithDir sets the working directory.
func (b *Builder) WithDir(dir string) *Builder {
	b.Dir = dir
	return b
}

// WithEnv appends KEY=VALUE entries to the inherited environment.
func (b *Builder) WithEnv(env ...string) *Builder {
	b.Env = append(b.Env, env...)
	return b
}

// Run starts the process and waits for it. A non-zero exit or death by
// signal is an error; stdout is only returned on success.
func (b *Builder) Run(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(ctx, b.Exe, b.Args...)
	cmd.Dir = b.Dir
	if len(b.Env) > 0 {
		cmd.Env = append(os.Environ(), b.Env...)
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = b.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	logger.Log.Debug("exec", zap.String("exe", b.Exe), zap.Strings("args", b.Args), zap.String("dir", b.Dir))

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return nil, fmt.Errorf("child '%s' exited on signal %s", b.Exe, ws.Signal())
		}
		return nil, fmt.Errorf("child '%s' failed: exit code %d", b.Exe, exitErr.ExitCode())
	}
	return nil, fmt.Errorf("child '%s': %w", b.Exe, err)
}

// DecodeUTF8 converts data to a string, rejecting invalid UTF-8 instead of
// substituting replacement characters. A byte order mark is kept.
func DecodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid UTF-8 in %d bytes of output", len(data))
	}
	return string(data), nil
}

// SplitOn splits data into strings terminated by delim. Every section must be
// valid UTF-8 and the data must end with delim (or be empty).
func SplitOn(data []byte, delim byte) ([]string, error) {
	var parts []string
	start := 0
	for i, c := range data {
		if c != delim {
			continue
		}
		s, err := DecodeUTF8(data[start:i])
		if err != nil {
			return nil, fmt.Errorf("section at index %d: %w", start, err)
		}
		parts = append(parts, s)
		start = i + 1
	}
	if start != len(data) {
		return nil, fmt.Errorf("no 0x%x found after index %d", delim, start)
	}
	return parts, nil
}
