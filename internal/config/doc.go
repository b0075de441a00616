// Package config loads and validates the seqdeliver TOML configuration.
//
// Configuration sections:
//   - Paths: the four data roots (archive, production, project, runqc)
//     plus the log directory seqdeliver owns
//   - Rsync: external sync binary and option string
//   - Logging: log format and level
//
// Load resolves the file (explicit flag, then the user config dir, then
// a project-local seqdeliver.toml), applies defaults, expands paths and
// validates that every required root is set.
package config
