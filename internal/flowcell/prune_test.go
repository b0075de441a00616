package flowcell

import (
	"reflect"
	"testing"
)

func TestPruneSequenceFilesPrefersCompressed(t *testing.T) {
	in := []string{"sample_R1.fastq", "sample_R1.fastq.gz"}
	got := PruneSequenceFiles(in)
	want := []string{"sample_R1.fastq.gz"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("prune = %v, want %v", got, want)
	}
}

func TestPruneSequenceFilesLeavesSingletonsAlone(t *testing.T) {
	in := []string{"sample_R1.fastq"}
	got := PruneSequenceFiles(in)
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("prune = %v, want %v", got, in)
	}
}

func TestPruneSequenceFilesIsIdempotent(t *testing.T) {
	in := []string{
		"1_ACGT_L001_R1.fastq",
		"1_ACGT_L001_R1.fastq.gz",
		"1_ACGT_L001_R2.fastq.gz",
		"1_ACGT_L002_R1.fastq",
	}
	once := PruneSequenceFiles(in)
	twice := PruneSequenceFiles(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("not idempotent: %v vs %v", once, twice)
	}
	want := []string{
		"1_ACGT_L001_R1.fastq.gz",
		"1_ACGT_L001_R2.fastq.gz",
		"1_ACGT_L002_R1.fastq",
	}
	if !reflect.DeepEqual(once, want) {
		t.Fatalf("prune = %v, want %v", once, want)
	}
}

func TestPruneSequenceFilesEmptyInput(t *testing.T) {
	if got := PruneSequenceFiles(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
