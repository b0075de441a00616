// Package deliverylog persists a per-host history of delivery actions
// in a SQLite database under the configured log directory. Each CLI
// invocation gets a unique id and appends one event per sample action,
// so operators can answer "when was project X transferred and by which
// run" long after the terminal scrollback is gone. Dry-run invocations
// are never recorded.
package deliverylog
