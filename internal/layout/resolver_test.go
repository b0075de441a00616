package layout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seqdeliver/internal/logging"
	"seqdeliver/internal/services"
)

const sampleManifest = `flowcell_id: FC1
samples:
  - lane: 1
    sequence: 1
    name: P001_101
    sample_prj: J.Doe_12_01
`

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestFromCasavaResolvesInventories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"J.Doe_12_01/P001_101/FC1/P001_101-bcbb-config.yaml":   sampleManifest,
		"J.Doe_12_01/P001_101/FC1/1_ACGT_P001_101_R1.fastq.gz": "reads",
		"J.Doe_12_01/P001_101/FC1/P001_101-align.bam":          "alignments",
	})

	resolver := NewResolver(logging.NewNop())
	fcs, err := resolver.FromCasava(root, "J.Doe_12_01", "J.Doe_12_01")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(fcs) != 1 {
		t.Fatalf("flowcells = %d", len(fcs))
	}
	fc := fcs[0]
	if fc.ID != "FC1" || len(fc.Samples) != 1 {
		t.Fatalf("unexpected flowcell %+v", fc)
	}
	sample := fc.Samples[0]
	if len(sample.Files) != 1 || len(sample.Results) != 1 {
		t.Fatalf("files=%v results=%v", sample.Files, sample.Results)
	}
}

func TestFromCasavaSkipsUnreadableMetadata(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"P/a/broken-bcbb-config.yaml": "{{{not yaml",
		"P/b/P001_101-bcbb-config.yaml": sampleManifest,
	})

	resolver := NewResolver(logging.NewNop())
	fcs, err := resolver.FromCasava(root, "P", "J.Doe_12_01")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(fcs) != 1 {
		t.Fatalf("expected broken metadata to be skipped, got %d flowcells", len(fcs))
	}
}

func TestFromCasavaNoMetadataIsNotFound(t *testing.T) {
	resolver := NewResolver(logging.NewNop())
	_, err := resolver.FromCasava(t.TempDir(), "P", "J.Doe_12_01")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestFromCasavaMissingRootIsNotFound(t *testing.T) {
	resolver := NewResolver(logging.NewNop())
	_, err := resolver.FromCasava(filepath.Join(t.TempDir(), "absent"), "P", "J.Doe_12_01")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestFromPreCasavaPrefersArchiveRoot(t *testing.T) {
	archive := t.TempDir()
	production := t.TempDir()
	writeTree(t, archive, map[string]string{
		"FC1/run_info.yaml": sampleManifest,
	})
	writeTree(t, production, map[string]string{
		"FC1/1_ACGT_P001_101_R1.fastq.gz": "reads",
		"FC1/P001_101-align.bam":          "alignments",
	})

	resolver := NewResolver(logging.NewNop())
	fc, err := resolver.FromPreCasava(archive, production, "FC1", "J.Doe_12_01")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if fc.Path != filepath.Join(production, "FC1") {
		t.Fatalf("path = %q", fc.Path)
	}
	sample := fc.Samples[0]
	if len(sample.Files) != 1 || len(sample.Results) != 1 {
		t.Fatalf("files=%v results=%v", sample.Files, sample.Results)
	}
}

func TestFromPreCasavaNoRunInfoIsNotFound(t *testing.T) {
	resolver := NewResolver(logging.NewNop())
	_, err := resolver.FromPreCasava(t.TempDir(), t.TempDir(), "FC404", "J.Doe_12_01")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}

func TestFromPreCasavaWrongProjectIsNotFound(t *testing.T) {
	archive := t.TempDir()
	writeTree(t, archive, map[string]string{
		"FC1/run_info.yaml": sampleManifest,
	})
	resolver := NewResolver(logging.NewNop())
	_, err := resolver.FromPreCasava(archive, t.TempDir(), "FC1", "Other_Project")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found, got %v", err)
	}
}
