// Package dryops provides the dry-run-aware operation primitives every
// mutating layer of seqdeliver goes through.
//
// Each primitive checks the dry-run flag at its own mutation point, so
// a simulated invocation logs every individual action it would have
// taken and touches nothing. Unlink and MakeDir treat absent/present
// targets as warnings, directory removal is best-effort, writes refuse
// to overwrite, and Rsync drives the external sync tool capturing its
// output for callers to inspect.
package dryops
