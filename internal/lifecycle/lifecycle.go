package lifecycle

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"seqdeliver/internal/dryops"
	"seqdeliver/internal/fileutil"
	"seqdeliver/internal/logging"
	"seqdeliver/internal/prompt"
	"seqdeliver/internal/services"
)

const (
	// FinishedMarker flags a sample as delivered and verified against
	// the QC archive.
	FinishedMarker = "FINISHED_AND_DELIVERED"
	// RemovedMarker flags a sample whose directory contents have been
	// reclaimed. Terminal; nothing transitions out of it.
	RemovedMarker = "FINISHED_AND_REMOVED"

	// cleanSyncToken appears in rsync output when nothing would move.
	cleanSyncToken = "total size is 0"
)

// State is a sample directory's lifecycle position.
type State int

const (
	StateNotFinished State = iota
	StateFinished
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateFinished:
		return "finished"
	case StateRemoved:
		return "removed"
	default:
		return "not-finished"
	}
}

// StateOf reads a sample directory's lifecycle state from its marker
// files.
func StateOf(sampleDir string) State {
	if fileutil.Exists(filepath.Join(sampleDir, RemovedMarker)) {
		return StateRemoved
	}
	if fileutil.Exists(filepath.Join(sampleDir, FinishedMarker)) {
		return StateFinished
	}
	return StateNotFinished
}

// Outcome records what happened to one sample during a lifecycle
// operation.
type Outcome struct {
	Sample string
	Action string
	Detail string
}

// Manager drives the finished/removed marker protocol.
type Manager struct {
	runner   *dryops.Runner
	prompter *prompt.Prompter
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager constructs a Manager.
func NewManager(runner *dryops.Runner, prompter *prompt.Prompter, logger *slog.Logger) *Manager {
	return &Manager{
		runner:   runner,
		prompter: prompter,
		logger:   logging.NewComponentLogger(logger, "lifecycle"),
		now:      time.Now,
	}
}

// MarkRequest describes a mark-finished operation.
type MarkRequest struct {
	ProductionRoot string
	RunQCRoot      string
	Project        string
	Samples        []string
	RsyncOpts      string
	Force          bool
}

// MarkFinished verifies each sample is synchronized with the QC
// archive and, after confirmation, writes the Finished marker with a
// UTC timestamp. Samples whose sync report shows pending differences
// are reported and left untouched.
func (m *Manager) MarkFinished(ctx context.Context, req MarkRequest) ([]Outcome, error) {
	var outcomes []Outcome
	for _, sample := range req.Samples {
		samplePath := filepath.Join(req.ProductionRoot, req.Project, sample)
		if !fileutil.Exists(samplePath) {
			m.logger.Warn("no such path; skipping",
				logging.String("sample", sample),
				logging.String("path", samplePath))
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "missing", Detail: samplePath})
			continue
		}

		src := samplePath + string(os.PathSeparator)
		tgt := filepath.Join(req.RunQCRoot, req.Project, sample) + string(os.PathSeparator)
		m.logger.Info("checking QC archive is up to date",
			logging.String("sample", sample),
			logging.String("target", tgt))
		out, err := m.runner.Rsync(ctx, src, tgt, req.RsyncOpts, false)
		if err != nil {
			return outcomes, err
		}
		if !m.runner.DryRun && !strings.Contains(out, cleanSyncToken) {
			dirty := services.Wrap(services.ErrSyncDirty, "lifecycle", "verify sync",
				sample+" has pending differences against the QC archive", nil)
			m.logger.Warn("QC archive not up to date; not marking finished",
				logging.String("sample", sample),
				logging.Error(dirty))
			fmt.Fprintf(os.Stderr, "********\n%s\n********\n", strings.TrimSpace(out))
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "sync-dirty"})
			continue
		}

		question := fmt.Sprintf("Going to touch file %s for sample %s; continue?", FinishedMarker, sample)
		if !m.prompter.Confirm(question, req.Force) {
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "declined"})
			continue
		}
		m.logger.Info("touching finished marker", logging.String("sample", sample))
		stamp := m.now().UTC().Format(time.RFC3339)
		if err := m.runner.WriteFile(filepath.Join(samplePath, FinishedMarker), []byte(stamp)); err != nil {
			// Marker already present; the sample stays finished.
			m.logger.Warn("finished marker already present",
				logging.String("sample", sample),
				logging.Error(err))
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "already-finished"})
			continue
		}
		outcomes = append(outcomes, Outcome{Sample: sample, Action: "marked", Detail: stamp})
	}
	return outcomes, nil
}

// RemoveRequest describes a remove-finished operation.
type RemoveRequest struct {
	ProductionRoot string
	Project        string
	Force          bool
}

// RemoveFinished reclaims storage for every finished sample directory
// of a project: all contents except the two markers are deleted,
// directories deepest first, and the Removed marker is written. The
// transition is irreversible; unfinished and already-removed samples
// are skipped.
func (m *Manager) RemoveFinished(req RemoveRequest) ([]Outcome, error) {
	projectPath := filepath.Join(req.ProductionRoot, req.Project)
	dirEntries, err := os.ReadDir(projectPath)
	if err != nil {
		return nil, fmt.Errorf("list samples under %s: %w", projectPath, err)
	}

	var outcomes []Outcome
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		sample := entry.Name()
		samplePath := filepath.Join(projectPath, sample)
		switch StateOf(samplePath) {
		case StateNotFinished:
			m.logger.Info("sample not finished; skipping", logging.String("sample", sample))
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "not-finished"})
			continue
		case StateRemoved:
			m.logger.Info("sample already removed; skipping", logging.String("sample", sample))
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "already-removed"})
			continue
		}

		files, err := fileutil.FilteredWalk(samplePath, nil)
		if err != nil {
			return outcomes, fmt.Errorf("enumerate %s: %w", samplePath, err)
		}
		dirs, err := fileutil.FilteredWalkDirs(samplePath, nil)
		if err != nil {
			return outcomes, fmt.Errorf("enumerate %s: %w", samplePath, err)
		}
		marker := filepath.Join(samplePath, FinishedMarker)
		deletable := files[:0]
		for _, file := range files {
			if file != marker {
				deletable = append(deletable, file)
			}
		}

		if len(deletable) > 0 {
			question := fmt.Sprintf("Will remove directory %s containing %d files; continue?", sample, len(deletable))
			if !m.prompter.Confirm(question, req.Force) {
				outcomes = append(outcomes, Outcome{Sample: sample, Action: "declined"})
				continue
			}
		}

		m.logger.Info("removing sample contents",
			logging.String("sample", sample),
			logging.Int("files", len(deletable)),
			logging.Int("dirs", len(dirs)))
		for _, file := range deletable {
			if err := m.runner.Unlink(file); err != nil {
				return outcomes, err
			}
		}
		sortByDepthDescending(dirs)
		for _, dir := range dirs {
			if err := m.runner.RemoveDir(dir); err != nil {
				return outcomes, err
			}
		}

		// In dry-run mode the removed marker is not written and not
		// logged; nothing was actually deleted.
		if !m.runner.DryRun {
			stamp := m.now().UTC().Format(time.RFC3339)
			if err := m.runner.WriteFile(filepath.Join(samplePath, RemovedMarker), []byte(stamp)); err != nil {
				return outcomes, err
			}
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "removed", Detail: stamp})
		} else {
			outcomes = append(outcomes, Outcome{Sample: sample, Action: "removed-dry-run"})
		}
	}
	return outcomes, nil
}

// ResolveSampleArg expands a sample argument: when it names an
// existing regular file, each non-empty line is a sample name;
// otherwise the argument itself is the single sample.
func ResolveSampleArg(arg string) ([]string, error) {
	info, err := os.Stat(arg)
	if err != nil || info.IsDir() {
		return []string{arg}, nil
	}
	file, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("open sample list %s: %w", arg, err)
	}
	defer file.Close()

	var samples []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			samples = append(samples, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sample list %s: %w", arg, err)
	}
	return samples, nil
}

// sortByDepthDescending orders paths deepest first so each directory
// is empty by the time its removal is attempted.
func sortByDepthDescending(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		di := strings.Count(paths[i], string(os.PathSeparator))
		dj := strings.Count(paths[j], string(os.PathSeparator))
		if di != dj {
			return di > dj
		}
		return paths[i] > paths[j]
	})
}
