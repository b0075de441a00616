package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks missing or invalid configuration; fatal
	// before any inventory resolution.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks absent input data (no metadata files, no run
	// information); the command warns and aborts cleanly.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an overwrite conflict on a write primitive; the
	// write is skipped and the operation continues.
	ErrConflict = errors.New("conflict")
	// ErrSyncDirty marks a pre-finish check that found pending
	// differences against the QC archive.
	ErrSyncDirty = errors.New("sync not clean")
	// ErrExternalTool marks a subprocess failure (non-zero exit).
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes operation context while
// tagging it with the provided marker for later classification. The
// marker should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRecoverable reports whether the command should warn and abort
// cleanly rather than propagate a failure to the exit status.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrSyncDirty)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
