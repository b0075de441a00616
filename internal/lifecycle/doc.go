// Package lifecycle implements the per-sample marker-file protocol
// that tracks delivered samples from finished to removed.
//
// A sample moves NotFinished -> Finished only after a dry-run rsync
// against the QC archive reports nothing left to move, and Finished ->
// Removed destroys all sample contents except the two markers. Removed
// is terminal. Both transitions require operator confirmation unless
// forced, and every mutation goes through the dry-run-safe primitives.
package lifecycle
