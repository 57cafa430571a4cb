package pipeline

import (
	"path/filepath"
	"sort"
	"strings"
)

// DisplayPaths turns file paths into the names shown in progress output:
// relative to baseDir when they live below it, slash separated, sorted and
// without duplicates.
func DisplayPaths(files []string, baseDir string) []string {
	if len(files) == 0 {
		return files
	}
	base := strings.TrimSpace(baseDir)
	if base != "" {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, file := range files {
		if file == "" {
			continue
		}
		name := DisplayPath(file, base)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// DisplayPath is the single-file form of DisplayPaths.
func DisplayPath(file, baseDir string) string {
	path := filepath.Clean(file)
	if baseDir != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if rel, err := filepath.Rel(baseDir, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
