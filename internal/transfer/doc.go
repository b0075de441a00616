// Package transfer applies layout plans: it creates target
// directories, copies planned files through the dry-run-safe
// primitives and writes rewritten metadata records, accumulating a
// per-sample summary of what moved.
package transfer
