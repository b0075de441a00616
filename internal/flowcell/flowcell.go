package flowcell

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Sample is one sequenced library within a flowcell lane.
type Sample struct {
	Lane     int    `yaml:"lane"`
	Sequence int    `yaml:"sequence"`
	Name     string `yaml:"name"`
	Project  string `yaml:"sample_prj"`
	// Files holds raw-read file paths, Results analysis outputs.
	Files   []string `yaml:"files,omitempty"`
	Results []string `yaml:"results,omitempty"`
	// LaneFiles maps lane-scoped keys to file lists not tied to an
	// individual sample.
	LaneFiles map[string][]string `yaml:"lane_files,omitempty"`
}

// Key identifies the sample within its flowcell.
func (s *Sample) Key() string {
	return fmt.Sprintf("%d_%d", s.Lane, s.Sequence)
}

// Clone returns a deep copy of the sample.
func (s *Sample) Clone() *Sample {
	out := &Sample{
		Lane:     s.Lane,
		Sequence: s.Sequence,
		Name:     s.Name,
		Project:  s.Project,
		Files:    append([]string(nil), s.Files...),
		Results:  append([]string(nil), s.Results...),
	}
	if s.LaneFiles != nil {
		out.LaneFiles = make(map[string][]string, len(s.LaneFiles))
		for k, v := range s.LaneFiles {
			out.LaneFiles[k] = append([]string(nil), v...)
		}
	}
	return out
}

// Flowcell is one sequencing run's sample manifest plus its filesystem
// root. Inventories are rebuilt from metadata files on every
// invocation; nothing here is persisted.
type Flowcell struct {
	ID      string    `yaml:"flowcell_id"`
	Samples []*Sample `yaml:"samples"`
	// Path is the filesystem root the sample file paths live under.
	Path string `yaml:"-"`
}

// Load reads a metadata file into a Flowcell. The flowcell path
// defaults to the directory holding the metadata file.
func Load(path string) (*Flowcell, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	fc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse metadata %s: %w", path, err)
	}
	fc.Path = filepath.Dir(path)
	return fc, nil
}

// Parse decodes metadata YAML into a Flowcell.
func Parse(data []byte) (*Flowcell, error) {
	var fc Flowcell
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// Empty reports whether the flowcell carries no samples.
func (f *Flowcell) Empty() bool {
	return f == nil || len(f.Samples) == 0
}

// Subset projects the flowcell onto the samples whose field matches
// value. The projection references the same backing samples; the
// source sample set is never mutated. Supported fields are
// sample_prj, lane and name; any other field matches nothing.
func (f *Flowcell) Subset(field, value string) *Flowcell {
	out := &Flowcell{ID: f.ID, Path: f.Path}
	for _, sample := range f.Samples {
		if sampleField(sample, field) == value {
			out.Samples = append(out.Samples, sample)
		}
	}
	return out
}

func sampleField(s *Sample, field string) string {
	switch field {
	case "sample_prj":
		return s.Project
	case "lane":
		return strconv.Itoa(s.Lane)
	case "name":
		return s.Name
	default:
		return ""
	}
}

// Get returns the sample with the given lane_sequence key.
func (f *Flowcell) Get(key string) *Sample {
	for _, sample := range f.Samples {
		if sample.Key() == key {
			return sample
		}
	}
	return nil
}

// SetEntry replaces the named file category of the sample identified
// by key. Category is "files" or "results".
func (f *Flowcell) SetEntry(key, category string, paths []string) error {
	sample := f.Get(key)
	if sample == nil {
		return fmt.Errorf("no sample with key %s", key)
	}
	switch category {
	case "files":
		sample.Files = paths
	case "results":
		sample.Results = paths
	default:
		return fmt.Errorf("unknown entry category %q", category)
	}
	return nil
}

// Clone returns a deep copy whose samples can be rewritten without
// touching the source inventory.
func (f *Flowcell) Clone() *Flowcell {
	out := &Flowcell{ID: f.ID, Path: f.Path}
	for _, sample := range f.Samples {
		out.Samples = append(out.Samples, sample.Clone())
	}
	return out
}

// MarshalText serializes the flowcell record to YAML.
func (f *Flowcell) MarshalText() ([]byte, error) {
	// Marshal through an alias type so the encoder does not call
	// MarshalText again on the same value.
	type plain Flowcell
	return yaml.Marshal((*plain)(f))
}

// CollectFiles walks dir and assigns every regular file to the sample
// it belongs to: fastq reads into Files, everything else into Results.
// A file belongs to a sample when its base name carries the sample
// name; files carrying only a lane prefix are lane-scoped and recorded
// under LaneFiles. The flowcell path is rebased to dir so later target
// derivation can substitute it.
func (f *Flowcell) CollectFiles(dir string) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("collect files under %s: %w", dir, err)
	}

	sampleOwned := func(base string) bool {
		for _, sample := range f.Samples {
			if sample.Name != "" && strings.Contains(base, sample.Name) {
				return true
			}
		}
		return false
	}

	f.Path = dir
	for _, sample := range f.Samples {
		sample.Files = nil
		sample.Results = nil
		sample.LaneFiles = nil
		lanePrefix := fmt.Sprintf("%d_", sample.Lane)
		laneKey := strconv.Itoa(sample.Lane)
		for _, path := range paths {
			base := filepath.Base(path)
			switch {
			case sample.Name != "" && strings.Contains(base, sample.Name):
				if isSequenceFile(base) {
					sample.Files = append(sample.Files, path)
				} else {
					sample.Results = append(sample.Results, path)
				}
			case strings.HasPrefix(base, lanePrefix) && !sampleOwned(base):
				if sample.LaneFiles == nil {
					sample.LaneFiles = map[string][]string{}
				}
				sample.LaneFiles[laneKey] = append(sample.LaneFiles[laneKey], path)
			}
		}
	}
	return nil
}

func isSequenceFile(name string) bool {
	return strings.HasSuffix(name, ".fastq") || strings.HasSuffix(name, ".fastq.gz")
}
