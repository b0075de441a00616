// Package flowcell models one sequencing run's sample manifest.
//
// A Flowcell owns its Samples for the duration of a command
// invocation; inventories are rebuilt from YAML metadata and the
// filesystem on every run. Subset produces non-mutating projections,
// CollectFiles populates per-sample raw-read and result paths from a
// source tree, and PruneSequenceFiles deduplicates fastq/fastq.gz
// variants of the same logical read.
package flowcell
