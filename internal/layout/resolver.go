package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"seqdeliver/internal/fileutil"
	"seqdeliver/internal/flowcell"
	"seqdeliver/internal/logging"
	"seqdeliver/internal/services"
)

const (
	// CasavaConfigSuffix names per-sample metadata files under a
	// casava project tree.
	CasavaConfigSuffix = "-bcbb-config.yaml"
	// RunInfoName is the aggregated per-run metadata file under a
	// pre-casava flowcell directory.
	RunInfoName = "run_info.yaml"
)

// Resolver discovers flowcell inventories from a source directory tree.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{logger: logging.NewComponentLogger(logger, "layout")}
}

// FromCasava locates every *-bcbb-config.yaml under root/pathID,
// projects each onto the requested project and populates sample files
// from the metadata file's directory. Unreadable metadata is skipped
// with a warning; finding no usable metadata at all is a not-found
// condition the caller aborts on.
func (r *Resolver) FromCasava(root, pathID, project string) ([]*flowcell.Flowcell, error) {
	base := filepath.Join(root, pathID)
	metas, err := fileutil.FilteredWalk(base, func(name string) bool {
		return strings.HasSuffix(name, CasavaConfigSuffix)
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "layout", "resolve casava",
				fmt.Sprintf("no such path %s", base), nil)
		}
		return nil, fmt.Errorf("walk %s: %w", base, err)
	}

	var out []*flowcell.Flowcell
	for _, meta := range metas {
		fc, err := flowcell.Load(meta)
		if err != nil {
			r.logger.Warn("skipping unreadable metadata",
				logging.String("path", meta),
				logging.Error(err))
			continue
		}
		sub := fc.Subset("sample_prj", project)
		if sub.Empty() {
			r.logger.Debug("metadata has no samples for project",
				logging.String("path", meta),
				logging.String("project", project))
			continue
		}
		if err := sub.CollectFiles(filepath.Dir(meta)); err != nil {
			return nil, fmt.Errorf("collect files for %s: %w", meta, err)
		}
		out = append(out, sub)
	}
	if len(out) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "layout", "resolve casava",
			fmt.Sprintf("no metadata for project %s under %s", project, base), nil)
	}
	return out, nil
}

// FromPreCasava loads run information for one flowcell id from the
// first candidate root that has it, projects by project and populates
// files from the production tree. No run information anywhere is a
// not-found condition.
func (r *Resolver) FromPreCasava(archiveRoot, productionRoot, flowcellID, project string) (*flowcell.Flowcell, error) {
	var fc *flowcell.Flowcell
	for _, root := range []string{archiveRoot, productionRoot} {
		candidate := filepath.Join(root, flowcellID, RunInfoName)
		if !fileutil.Exists(candidate) {
			continue
		}
		loaded, err := flowcell.Load(candidate)
		if err != nil {
			r.logger.Warn("skipping unreadable run information",
				logging.String("path", candidate),
				logging.Error(err))
			continue
		}
		if loaded.ID == "" {
			loaded.ID = flowcellID
		}
		fc = loaded
		break
	}
	if fc == nil || fc.Empty() {
		return nil, services.Wrap(services.ErrNotFound, "layout", "resolve pre-casava",
			fmt.Sprintf("no run information available for %s", flowcellID), nil)
	}

	sub := fc.Subset("sample_prj", project)
	if sub.Empty() {
		return nil, services.Wrap(services.ErrNotFound, "layout", "resolve pre-casava",
			fmt.Sprintf("no samples for project %s on flowcell %s", project, flowcellID), nil)
	}
	if err := sub.CollectFiles(filepath.Join(productionRoot, flowcellID)); err != nil {
		return nil, fmt.Errorf("collect files for %s: %w", flowcellID, err)
	}
	return sub, nil
}
