package lifecycle

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"seqdeliver/internal/dryops"
	"seqdeliver/internal/logging"
	"seqdeliver/internal/prompt"
)

func forcePrompter() *prompt.Prompter {
	return &prompt.Prompter{
		In:         strings.NewReader(""),
		Out:        &bytes.Buffer{},
		IsTerminal: func() bool { return false },
	}
}

func writeStub(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rsync-stub")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func buildSampleDir(t *testing.T, productionRoot, project, sample string, files map[string]string) string {
	t.Helper()
	dir := filepath.Join(productionRoot, project, sample)
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir sample: %v", err)
	}
	return dir
}

func TestMarkFinishedCleanSyncWritesMarker(t *testing.T) {
	production := t.TempDir()
	sampleDir := buildSampleDir(t, production, "P", "S1", map[string]string{"reads.fastq.gz": "x"})
	stub := writeStub(t, "#!/bin/sh\necho \"sent 85 bytes\"\necho \"total size is 0\"\n")

	runner := dryops.NewRunner(false, stub, logging.NewNop())
	mgr := NewManager(runner, forcePrompter(), logging.NewNop())
	outcomes, err := mgr.MarkFinished(context.Background(), MarkRequest{
		ProductionRoot: production,
		RunQCRoot:      t.TempDir(),
		Project:        "P",
		Samples:        []string{"S1"},
		RsyncOpts:      "-av --dry-run",
		Force:          true,
	})
	if err != nil {
		t.Fatalf("mark finished: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Action != "marked" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if StateOf(sampleDir) != StateFinished {
		t.Fatal("expected finished state")
	}
	stamp, err := os.ReadFile(filepath.Join(sampleDir, FinishedMarker))
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	if _, err := time.Parse(time.RFC3339, string(stamp)); err != nil {
		t.Fatalf("marker timestamp %q not parseable: %v", stamp, err)
	}
}

func TestMarkFinishedDirtySyncRefuses(t *testing.T) {
	production := t.TempDir()
	sampleDir := buildSampleDir(t, production, "P", "S1", map[string]string{"reads.fastq.gz": "x"})
	stub := writeStub(t, "#!/bin/sh\necho \"reads.fastq.gz\"\necho \"total size is 931\"\n")

	runner := dryops.NewRunner(false, stub, logging.NewNop())
	mgr := NewManager(runner, forcePrompter(), logging.NewNop())
	outcomes, err := mgr.MarkFinished(context.Background(), MarkRequest{
		ProductionRoot: production,
		RunQCRoot:      t.TempDir(),
		Project:        "P",
		Samples:        []string{"S1"},
		RsyncOpts:      "-av --dry-run",
		Force:          true,
	})
	if err != nil {
		t.Fatalf("mark finished: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Action != "sync-dirty" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if StateOf(sampleDir) != StateNotFinished {
		t.Fatal("dirty sync must leave sample unfinished")
	}
}

func TestMarkFinishedMissingSampleSkips(t *testing.T) {
	runner := dryops.NewRunner(false, "rsync", logging.NewNop())
	mgr := NewManager(runner, forcePrompter(), logging.NewNop())
	outcomes, err := mgr.MarkFinished(context.Background(), MarkRequest{
		ProductionRoot: t.TempDir(),
		RunQCRoot:      t.TempDir(),
		Project:        "P",
		Samples:        []string{"ghost"},
		RsyncOpts:      "-av",
		Force:          true,
	})
	if err != nil {
		t.Fatalf("mark finished: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Action != "missing" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
}

func TestMarkFinishedDeclinedLeavesSample(t *testing.T) {
	production := t.TempDir()
	sampleDir := buildSampleDir(t, production, "P", "S1", nil)
	stub := writeStub(t, "#!/bin/sh\necho \"total size is 0\"\n")

	declining := &prompt.Prompter{
		In:         strings.NewReader("n\n"),
		Out:        &bytes.Buffer{},
		IsTerminal: func() bool { return true },
	}
	runner := dryops.NewRunner(false, stub, logging.NewNop())
	mgr := NewManager(runner, declining, logging.NewNop())
	outcomes, err := mgr.MarkFinished(context.Background(), MarkRequest{
		ProductionRoot: production,
		RunQCRoot:      t.TempDir(),
		Project:        "P",
		Samples:        []string{"S1"},
		RsyncOpts:      "-av",
	})
	if err != nil {
		t.Fatalf("mark finished: %v", err)
	}
	if outcomes[0].Action != "declined" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if StateOf(sampleDir) != StateNotFinished {
		t.Fatal("declined sample must stay unfinished")
	}
}

func TestRemoveFinishedFullTransition(t *testing.T) {
	production := t.TempDir()
	sampleDir := buildSampleDir(t, production, "P", "S1", map[string]string{
		"reads.fastq.gz":      "x",
		"nested/align.bam":    "y",
		"nested/deep/log.txt": "z",
	})
	if err := os.WriteFile(filepath.Join(sampleDir, FinishedMarker), []byte("2026-08-30T00:00:00Z"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	runner := dryops.NewRunner(false, "rsync", logging.NewNop())
	mgr := NewManager(runner, forcePrompter(), logging.NewNop())
	outcomes, err := mgr.RemoveFinished(RemoveRequest{ProductionRoot: production, Project: "P", Force: true})
	if err != nil {
		t.Fatalf("remove finished: %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Action != "removed" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if StateOf(sampleDir) != StateRemoved {
		t.Fatal("expected removed state")
	}

	entries, err := os.ReadDir(sampleDir)
	if err != nil {
		t.Fatalf("read sample dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	if len(names) != 2 {
		t.Fatalf("expected only the two markers to remain, got %v", names)
	}
	for _, name := range names {
		if name != FinishedMarker && name != RemovedMarker {
			t.Fatalf("unexpected survivor %q", name)
		}
	}
}

func TestRemoveFinishedSkipsUnfinished(t *testing.T) {
	production := t.TempDir()
	sampleDir := buildSampleDir(t, production, "P", "S1", map[string]string{"reads.fastq.gz": "x"})

	runner := dryops.NewRunner(false, "rsync", logging.NewNop())
	mgr := NewManager(runner, forcePrompter(), logging.NewNop())
	outcomes, err := mgr.RemoveFinished(RemoveRequest{ProductionRoot: production, Project: "P", Force: true})
	if err != nil {
		t.Fatalf("remove finished: %v", err)
	}
	if outcomes[0].Action != "not-finished" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if _, err := os.Stat(filepath.Join(sampleDir, "reads.fastq.gz")); err != nil {
		t.Fatal("unfinished sample contents must survive")
	}
}

func TestRemoveFinishedIdempotentOnRemoved(t *testing.T) {
	production := t.TempDir()
	sampleDir := buildSampleDir(t, production, "P", "S1", nil)
	for _, marker := range []string{FinishedMarker, RemovedMarker} {
		if err := os.WriteFile(filepath.Join(sampleDir, marker), []byte("2026-08-30T00:00:00Z"), 0o644); err != nil {
			t.Fatalf("write marker: %v", err)
		}
	}

	runner := dryops.NewRunner(false, "rsync", logging.NewNop())
	mgr := NewManager(runner, forcePrompter(), logging.NewNop())
	outcomes, err := mgr.RemoveFinished(RemoveRequest{ProductionRoot: production, Project: "P", Force: true})
	if err != nil {
		t.Fatalf("remove finished: %v", err)
	}
	if outcomes[0].Action != "already-removed" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
}

func TestRemoveFinishedDryRunWritesNoMarker(t *testing.T) {
	production := t.TempDir()
	sampleDir := buildSampleDir(t, production, "P", "S1", map[string]string{"reads.fastq.gz": "x"})
	if err := os.WriteFile(filepath.Join(sampleDir, FinishedMarker), []byte("2026-08-30T00:00:00Z"), 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}

	runner := dryops.NewRunner(true, "rsync", logging.NewNop())
	mgr := NewManager(runner, forcePrompter(), logging.NewNop())
	outcomes, err := mgr.RemoveFinished(RemoveRequest{ProductionRoot: production, Project: "P", Force: true})
	if err != nil {
		t.Fatalf("remove finished: %v", err)
	}
	if outcomes[0].Action != "removed-dry-run" {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if _, err := os.Stat(filepath.Join(sampleDir, "reads.fastq.gz")); err != nil {
		t.Fatal("dry run deleted files")
	}
	if StateOf(sampleDir) == StateRemoved {
		t.Fatal("dry run must not write the removed marker")
	}
}

func TestResolveSampleArgListFile(t *testing.T) {
	list := filepath.Join(t.TempDir(), "samples.txt")
	if err := os.WriteFile(list, []byte("S1\n\nS2\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	samples, err := ResolveSampleArg(list)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(samples) != 2 || samples[0] != "S1" || samples[1] != "S2" {
		t.Fatalf("samples = %v", samples)
	}

	direct, err := ResolveSampleArg("S9")
	if err != nil || len(direct) != 1 || direct[0] != "S9" {
		t.Fatalf("direct = %v (%v)", direct, err)
	}
}
