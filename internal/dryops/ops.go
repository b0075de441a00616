package dryops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"seqdeliver/internal/fileutil"
	"seqdeliver/internal/logging"
	"seqdeliver/internal/services"
)

var commandContext = exec.CommandContext

// Runner executes filesystem mutations and external sync invocations,
// honoring a dry-run flag at the point of every individual mutation.
type Runner struct {
	DryRun bool

	binary string
	logger *slog.Logger
}

// NewRunner constructs a Runner. binary names the external sync tool
// executable; an empty value defaults to rsync.
func NewRunner(dryRun bool, binary string, logger *slog.Logger) *Runner {
	if strings.TrimSpace(binary) == "" {
		binary = "rsync"
	}
	return &Runner{
		DryRun: dryRun,
		binary: binary,
		logger: logging.NewComponentLogger(logger, "dryops"),
	}
}

// dry reports whether the action should be simulated, logging the
// would-be mutation when it is.
func (r *Runner) dry(action string) bool {
	if !r.DryRun {
		return false
	}
	r.logger.Debug("(dry run) " + action)
	return true
}

// Unlink removes a file. A missing path is a warning, not an error;
// a failing removal propagates.
func (r *Runner) Unlink(path string) error {
	if r.dry("removing file " + path) {
		return nil
	}
	if !pathExists(path) {
		r.logger.Warn("not going to remove non-existent file", logging.String("path", path))
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

// RemoveDir removes an empty directory on a best-effort basis. A
// missing path is a warning; a failing removal (typically a directory
// that is not yet empty) is swallowed.
func (r *Runner) RemoveDir(path string) error {
	if r.dry("removing directory " + path) {
		return nil
	}
	if !pathExists(path) {
		r.logger.Warn("not going to remove non-existent directory", logging.String("path", path))
		return nil
	}
	if err := os.Remove(path); err != nil {
		r.logger.Debug("directory removal failed", logging.String("path", path), logging.Error(err))
	}
	return nil
}

// MakeDir creates a directory including intermediate segments. An
// existing directory is a warning, and a concurrent create racing this
// one is tolerated.
func (r *Runner) MakeDir(path string) error {
	if r.dry("making directory " + path) {
		return nil
	}
	if pathExists(path) {
		r.logger.Warn("directory already exists", logging.String("path", path))
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			return nil
		}
		return fmt.Errorf("make directory %s: %w", path, err)
	}
	return nil
}

// WriteFile writes data to path, refusing to overwrite an existing
// file. The refusal is a conflict the caller may skip over.
func (r *Runner) WriteFile(path string, data []byte) error {
	if r.dry("writing data to file " + path) {
		return nil
	}
	if pathExists(path) {
		r.logger.Warn("not overwriting existing file", logging.String("path", path))
		return services.Wrap(services.ErrConflict, "dryops", "write", path+" already exists", nil)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Copy streams src to tgt. The target's parent directory must already
// exist; copy failures propagate so a transfer aborts rather than
// silently skipping files.
func (r *Runner) Copy(src, tgt string) error {
	if r.dry("copying " + src + " to " + tgt) {
		return nil
	}
	if err := fileutil.CopyFile(src, tgt); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, tgt, err)
	}
	return nil
}

// Rsync invokes the external sync tool with the given option string.
// On success it returns captured stdout for the caller to inspect; on
// a non-zero exit it fails with captured stderr unless ignoreError is
// set. In dry-run mode the descriptive command line is returned in
// place of tool output.
func (r *Runner) Rsync(ctx context.Context, src, tgt, opts string, ignoreError bool) (string, error) {
	args := append(strings.Fields(opts), src, tgt)
	display := r.binary + " " + strings.Join(args, " ")
	if r.dry(display) {
		return "(dry run) " + display, nil
	}

	var stdout, stderr bytes.Buffer
	cmd := commandContext(ctx, r.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("running sync command", logging.String("command", display))
	if err := cmd.Run(); err != nil {
		if ignoreError {
			r.logger.Warn("ignoring sync failure",
				logging.String("command", display),
				logging.Error(err))
			return stdout.String(), nil
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", services.Wrap(services.ErrExternalTool, "dryops", "rsync", detail, err)
	}
	return stdout.String(), nil
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
