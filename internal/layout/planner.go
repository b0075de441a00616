package layout

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"seqdeliver/internal/flowcell"
)

// Category distinguishes raw-read files from analysis results in a
// transfer plan.
type Category int

const (
	CategoryFile Category = iota
	CategoryResult
)

func (c Category) String() string {
	if c == CategoryResult {
		return "result"
	}
	return "file"
}

// Entry is one source-to-target file mapping.
type Entry struct {
	Sample   string
	Category Category
	Source   string
	Target   string
}

// MetadataFile is a metadata record the executor writes at its new
// location.
type MetadataFile struct {
	Path    string
	Content []byte
}

// Plan is the complete set of operations a transfer performs: target
// directories to create, file copies to run and metadata records to
// write. DataDirs names the produced data directories that are later
// scanned for job-submission metadata to prune.
type Plan struct {
	Dirs     []string
	Entries  []Entry
	Metadata []MetadataFile
	DataDirs []string
}

// Planner maps resolved inventories onto target paths under a
// destination convention.
type Planner struct {
	// ProjectRoot is the delivery area root.
	ProjectRoot string
	// Project is the owning project id.
	Project string
	// TransferDir, when set, replaces the project id as the delivery
	// subtree.
	TransferDir string
}

func (p *Planner) outdirPrefix() string {
	subtree := p.Project
	if strings.TrimSpace(p.TransferDir) != "" {
		subtree = p.TransferDir
	}
	return filepath.Join(p.ProjectRoot, subtree)
}

// ToCasava plans delivery of one flowcell into the casava convention:
// one output directory and one metadata file per sample, with files
// and results sharing the sample's directory.
func (p *Planner) ToCasava(fc *flowcell.Flowcell) (*Plan, error) {
	plan := &Plan{}
	prefix := filepath.Join(p.outdirPrefix(), "data")
	for _, sample := range fc.Samples {
		files := flowcell.PruneSequenceFiles(sample.Files)
		results := append([]string(nil), sample.Results...)
		outdir := filepath.Join(prefix, sample.Name, fc.ID)
		plan.Dirs = append(plan.Dirs, outdir)
		plan.DataDirs = append(plan.DataDirs, outdir)

		fileTargets := retarget(files, fc.Path, outdir)
		resultTargets := retarget(results, fc.Path, outdir)
		plan.Entries = append(plan.Entries, entries(sample.Name, CategoryFile, files, fileTargets)...)
		plan.Entries = append(plan.Entries, entries(sample.Name, CategoryResult, results, resultTargets)...)

		record := fc.Subset("lane", strconv.Itoa(sample.Lane)).Subset("name", sample.Name).Clone()
		key := sample.Key()
		if err := record.SetEntry(key, "files", fileTargets); err != nil {
			return nil, err
		}
		if err := record.SetEntry(key, "results", resultTargets); err != nil {
			return nil, err
		}
		rebaseLaneFiles(record, outdir)

		content, err := record.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("serialize metadata for %s: %w", sample.Name, err)
		}
		plan.Metadata = append(plan.Metadata, MetadataFile{
			Path:    filepath.Join(outdir, sample.Name+"-bcbb-pm-config.yaml"),
			Content: content,
		})
	}
	return plan, nil
}

// ToPreCasava plans delivery of one flowcell into the pre-casava
// convention: raw reads under data/<flowcell>, results under
// intermediate/<flowcell>, and a single aggregated metadata file.
func (p *Planner) ToPreCasava(fc *flowcell.Flowcell) (*Plan, error) {
	prefix := p.outdirPrefix()
	dataDir := filepath.Join(prefix, "data", fc.ID)
	intermediateDir := filepath.Join(prefix, "intermediate", fc.ID)

	plan := &Plan{
		Dirs:     []string{dataDir, intermediateDir},
		DataDirs: []string{dataDir},
	}
	record := fc.Clone()
	for _, sample := range fc.Samples {
		files := flowcell.PruneSequenceFiles(sample.Files)
		results := append([]string(nil), sample.Results...)
		fileTargets := retarget(files, fc.Path, dataDir)
		resultTargets := retarget(results, fc.Path, intermediateDir)
		plan.Entries = append(plan.Entries, entries(sample.Name, CategoryFile, files, fileTargets)...)
		plan.Entries = append(plan.Entries, entries(sample.Name, CategoryResult, results, resultTargets)...)

		key := sample.Key()
		if err := record.SetEntry(key, "files", fileTargets); err != nil {
			return nil, err
		}
		if err := record.SetEntry(key, "results", resultTargets); err != nil {
			return nil, err
		}
	}

	content, err := record.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("serialize run information for %s: %w", fc.ID, err)
	}
	plan.Metadata = append(plan.Metadata, MetadataFile{
		Path:    filepath.Join(dataDir, "project_run_info.yaml"),
		Content: content,
	})
	return plan, nil
}

// retarget substitutes the flowcell root prefix in each source path
// with the computed output directory.
func retarget(sources []string, root, outdir string) []string {
	out := make([]string, len(sources))
	for i, src := range sources {
		out[i] = strings.Replace(src, root, outdir, 1)
	}
	return out
}

func entries(sample string, category Category, sources, targets []string) []Entry {
	out := make([]Entry, len(sources))
	for i := range sources {
		out[i] = Entry{Sample: sample, Category: category, Source: sources[i], Target: targets[i]}
	}
	return out
}

func rebaseLaneFiles(fc *flowcell.Flowcell, outdir string) {
	for _, sample := range fc.Samples {
		for key, paths := range sample.LaneFiles {
			rebased := make([]string, len(paths))
			for i, path := range paths {
				rebased[i] = filepath.Join(outdir, filepath.Base(path))
			}
			sample.LaneFiles[key] = rebased
		}
	}
}
