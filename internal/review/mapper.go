// Package review turns parsed backend findings into postable comments.
package review

import (
	"fmt"
	"strconv"

	"ai-pr-reviewer/internal/ai"
	"ai-pr-reviewer/internal/diff"
)

// DropLog receives one entry per finding dropped during mapping.
type DropLog func(reason string, kv ...any)

// MapFindings anchors raw findings onto the file's target path. Files
// without a target path (deleted files) contribute nothing. A finding
// whose line-number token is not numeric is dropped and logged rather
// than forwarded as an invalid comment.
func MapFindings(file diff.FileDiff, findings []ai.RawFinding, drop DropLog) []Comment {

	if file.Deleted() {
		if len(findings) > 0 && drop != nil {
			drop("unresolvable target path",
				"old_path", file.OldPath,
				"findings", len(findings),
			)
		}
		return nil
	}

	var comments []Comment

	for _, f := range findings {
		line, err := parseLineToken(f.LineNumber)
		if err != nil {
			if drop != nil {
				drop("malformed finding line number",
					"file", file.TargetPath(),
					"token", f.LineNumber,
				)
			}
			continue
		}

		comments = append(comments, Comment{
			Path: file.TargetPath(),
			Line: line,
			Body: f.Comment,
		})
	}

	return comments
}

func parseLineToken(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("non-numeric line token %q: %w", token, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("line token %q out of range", token)
	}
	return n, nil
}
