package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ExpandInputs expands a list of file paths, directories and glob patterns into
// a deduplicated, sorted list of document paths. A directory contributes its
// supported documents (not recursive, hidden files skipped). Patterns that
// don't match any files are returned as-is (the caller should handle
// file-not-found errors).
func ExpandInputs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			// Pattern didn't match anything - include it as literal path
			// so the loader reports a proper error later
			add(pattern)
			continue
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil || !info.IsDir() {
				add(match)
				continue
			}
			docs, err := listDocuments(match)
			if err != nil {
				return nil, err
			}
			for _, doc := range docs {
				add(doc)
			}
		}
	}

	// Sort for deterministic ordering
	sort.Strings(result)

	return result, nil
}

// listDocuments returns the supported, non-hidden files directly inside dir.
func listDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var docs []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if IsSupported(e.Name()) {
			docs = append(docs, filepath.Join(dir, e.Name()))
		}
	}
	return docs, nil
}
