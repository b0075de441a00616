package fileutil

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FilteredWalk recursively collects the files under root whose base
// name satisfies match. The root itself is never returned. Results are
// sorted for deterministic plans.
func FilteredWalk(root string, match func(name string) bool) ([]string, error) {
	return filteredWalk(root, match, false)
}

// FilteredWalkDirs is FilteredWalk for directories.
func FilteredWalkDirs(root string, match func(name string) bool) ([]string, error) {
	return filteredWalk(root, match, true)
}

func filteredWalk(root string, match func(name string) bool, wantDirs bool) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if entry.IsDir() != wantDirs {
			return nil
		}
		if match == nil || match(entry.Name()) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// StripExtension splits path into (stem, extension). When strip is
// non-empty and the path carries that exact extension, it is removed
// first so "a.fastq.gz" with strip ".gz" yields ("a.fastq", ".gz").
func StripExtension(path, strip string) (string, string) {
	if strip != "" && strings.HasSuffix(path, strip) {
		return strings.TrimSuffix(path, strip), strip
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}
