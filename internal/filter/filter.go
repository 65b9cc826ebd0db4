// Package filter decides which changed files are eligible for review.
package filter

import (
	"github.com/bmatcuk/doublestar/v4"

	"ai-pr-reviewer/internal/diff"
)

// Exclude drops files whose target path matches any of the given glob
// patterns. Deleted files (empty target path) are matched against the
// empty string. Order of the remaining files is preserved, and filtering
// an already-filtered sequence with the same patterns is a no-op.
func Exclude(files []diff.FileDiff, patterns []string) []diff.FileDiff {
	if len(patterns) == 0 {
		return files
	}

	var result []diff.FileDiff
	for _, f := range files {
		if matchesAny(f.TargetPath(), patterns) {
			continue
		}
		result = append(result, f)
	}

	return result
}

func matchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return true
		}
	}
	return false
}
