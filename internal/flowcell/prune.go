package flowcell

import (
	"sort"

	"seqdeliver/internal/fileutil"
)

// PruneSequenceFiles collapses fastq/fastq.gz pairs representing the
// same logical read into one path, with the compressed variant taking
// precedence. Only raw-read file lists go through here; results are
// never pruned. The output is sorted, which makes the operation
// idempotent and plans deterministic.
func PruneSequenceFiles(files []string) []string {
	if len(files) == 0 {
		return nil
	}
	gzSeen := make(map[string]bool, len(files))
	order := make([]string, 0, len(files))
	for _, file := range files {
		stem, ext := fileutil.StripExtension(file, ".gz")
		if ext != ".gz" {
			stem = file
		}
		if _, ok := gzSeen[stem]; !ok {
			order = append(order, stem)
		}
		if ext == ".gz" {
			gzSeen[stem] = true
		} else if !gzSeen[stem] {
			gzSeen[stem] = false
		}
	}

	out := make([]string, 0, len(order))
	for _, stem := range order {
		if gzSeen[stem] {
			out = append(out, stem+".gz")
		} else {
			out = append(out, stem)
		}
	}
	sort.Strings(out)
	return out
}
