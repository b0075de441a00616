package services_test

import (
	"errors"
	"strings"
	"testing"

	"seqdeliver/internal/services"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	base := errors.New("exit status 23")
	err := services.Wrap(services.ErrExternalTool, "lifecycle", "rsync", "check failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "lifecycle: rsync: check failed") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrNotFound, "layout", "resolve", "no metadata", nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found marker, got %v", err)
	}
}

func TestIsRecoverable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", services.Wrap(services.ErrNotFound, "layout", "resolve", "none", nil), true},
		{"conflict", services.Wrap(services.ErrConflict, "dryops", "write", "exists", nil), true},
		{"sync dirty", services.Wrap(services.ErrSyncDirty, "lifecycle", "check", "pending", nil), true},
		{"configuration", services.Wrap(services.ErrConfiguration, "config", "load", "missing root", nil), false},
		{"external tool", services.Wrap(services.ErrExternalTool, "dryops", "rsync", "exit 1", nil), false},
	}
	for _, tc := range cases {
		if got := services.IsRecoverable(tc.err); got != tc.want {
			t.Errorf("%s: IsRecoverable = %v, want %v", tc.name, got, tc.want)
		}
	}
}
