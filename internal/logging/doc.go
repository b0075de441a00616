// Package logging builds the slog loggers used across seqdeliver.
//
// Console output renders one line per record as "ts LEVEL component:
// msg k=v"; JSON output uses lowercase level names and RFC3339 UTC
// timestamps. Attr helpers keep call sites free of direct slog imports
// and NewComponentLogger stamps the component field consumed by the
// console handler.
package logging
