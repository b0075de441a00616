// Package layout reconciles the two directory conventions sequencing
// runs are stored under.
//
// The Resolver builds in-memory flowcell inventories from either a
// casava project tree (per-sample metadata files discovered by walk)
// or a pre-casava flowcell tree (aggregated run information from the
// first candidate root that has it). The Planner maps a resolved
// inventory onto target paths under the destination convention,
// producing concrete source-to-target entries, the directories they
// need and the rewritten metadata records. PrunePlatformArgs strips
// host-specific scheduler arguments from delivered job-submission
// metadata.
package layout
