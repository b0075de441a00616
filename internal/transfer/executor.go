package transfer

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"seqdeliver/internal/dryops"
	"seqdeliver/internal/layout"
	"seqdeliver/internal/logging"
	"seqdeliver/internal/services"
)

// Counts summarizes what was transferred for one sample.
type Counts struct {
	Files   int
	Results int
}

// Summary lists per-sample transfer counts in plan order.
type Summary struct {
	order  []string
	counts map[string]Counts
}

// Samples returns sample names in the order they appeared in the plan.
func (s *Summary) Samples() []string {
	return s.order
}

// Counts returns the transfer counts for one sample.
func (s *Summary) Counts(sample string) Counts {
	return s.counts[sample]
}

func (s *Summary) add(sample string, category layout.Category) {
	if s.counts == nil {
		s.counts = map[string]Counts{}
	}
	if _, ok := s.counts[sample]; !ok {
		s.order = append(s.order, sample)
	}
	c := s.counts[sample]
	switch category {
	case layout.CategoryFile:
		c.Files++
	case layout.CategoryResult:
		c.Results++
	}
	s.counts[sample] = c
}

// Executor applies a transfer plan through the safe operation
// primitives.
type Executor struct {
	runner *dryops.Runner
	logger *slog.Logger
}

// NewExecutor constructs an Executor.
func NewExecutor(runner *dryops.Runner, logger *slog.Logger) *Executor {
	return &Executor{
		runner: runner,
		logger: logging.NewComponentLogger(logger, "transfer"),
	}
}

// Execute creates every planned target directory, copies every entry
// and writes the rewritten metadata records. The first copy failure
// aborts the whole command; whatever partial state exists at that
// point is left for the operator to inspect. Metadata writes that hit
// an existing file are skipped with a warning and do not abort.
func (e *Executor) Execute(plan *layout.Plan) (*Summary, error) {
	for _, dir := range plan.Dirs {
		if err := e.runner.MakeDir(dir); err != nil {
			return nil, err
		}
	}

	summary := &Summary{}
	for _, entry := range plan.Entries {
		if parent := filepath.Dir(entry.Target); parent != "." {
			if err := e.runner.MakeDir(parent); err != nil {
				return nil, err
			}
		}
		e.logger.Debug("transferring file",
			logging.String("category", entry.Category.String()),
			logging.String("source", entry.Source),
			logging.String("target", entry.Target))
		if err := e.runner.Copy(entry.Source, entry.Target); err != nil {
			return nil, fmt.Errorf("transfer aborted at %s: %w", entry.Source, err)
		}
		summary.add(entry.Sample, entry.Category)
	}

	for _, meta := range plan.Metadata {
		if err := e.runner.WriteFile(meta.Path, meta.Content); err != nil {
			if errors.Is(err, services.ErrConflict) {
				e.logger.Warn("metadata file already exists; keeping existing record",
					logging.String("path", meta.Path))
				continue
			}
			return nil, err
		}
		e.logger.Info("wrote metadata record", logging.String("path", meta.Path))
	}

	return summary, nil
}
