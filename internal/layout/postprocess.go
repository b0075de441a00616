package layout

import (
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"seqdeliver/internal/dryops"
	"seqdeliver/internal/fileutil"
	"seqdeliver/internal/logging"
)

// PostProcessSuffix names job-submission metadata files subject to
// platform-argument pruning after delivery.
const PostProcessSuffix = "-post_process.yaml"

// platformArgAllowList is the set of scheduler arguments that survive
// pruning; everything else is host-specific and must not leak into
// delivered metadata.
var platformArgAllowList = map[string]struct{}{
	"time":      {},
	"workdir":   {},
	"account":   {},
	"partition": {},
	"outpath":   {},
	"jobname":   {},
}

// PrunePlatformArgs rewrites every *-post_process.yaml under dataDir,
// keeping only allow-listed platform arguments. Files that need no
// change are left untouched; changed files are removed and rewritten
// through the safe primitives with fully buffered content.
func PrunePlatformArgs(runner *dryops.Runner, dataDir string, logger *slog.Logger) error {
	log := logging.NewComponentLogger(logger, "layout")
	ppFiles, err := fileutil.FilteredWalk(dataDir, func(name string) bool {
		return strings.HasSuffix(name, PostProcessSuffix)
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("walk %s: %w", dataDir, err)
	}

	for _, pp := range ppFiles {
		log.Debug("rewriting platform args", logging.String("path", pp))
		data, err := os.ReadFile(pp)
		if err != nil {
			return fmt.Errorf("read %s: %w", pp, err)
		}
		var conf map[string]any
		if err := yaml.Unmarshal(data, &conf); err != nil {
			return fmt.Errorf("parse %s: %w", pp, err)
		}
		if len(conf) == 0 {
			log.Warn("no configuration in job-submission metadata", logging.String("path", pp))
			continue
		}

		pruned, changed := prunePlatformArgs(conf)
		if !changed {
			continue
		}
		content, err := yaml.Marshal(pruned)
		if err != nil {
			return fmt.Errorf("serialize %s: %w", pp, err)
		}
		if err := runner.Unlink(pp); err != nil {
			return err
		}
		if err := runner.WriteFile(pp, content); err != nil {
			return err
		}
	}
	return nil
}

func prunePlatformArgs(conf map[string]any) (map[string]any, bool) {
	distributed, ok := conf["distributed"].(map[string]any)
	if !ok {
		return conf, false
	}
	args, ok := distributed["platform_args"].(map[string]any)
	if !ok {
		return conf, false
	}

	kept := make(map[string]any, len(args))
	for key, value := range args {
		if _, allowed := platformArgAllowList[key]; allowed {
			kept[key] = value
		}
	}
	if reflect.DeepEqual(kept, args) {
		return conf, false
	}

	out := make(map[string]any, len(conf))
	for key, value := range conf {
		out[key] = value
	}
	newDistributed := make(map[string]any, len(distributed))
	for key, value := range distributed {
		newDistributed[key] = value
	}
	newDistributed["platform_args"] = kept
	out["distributed"] = newDistributed
	return out, true
}
