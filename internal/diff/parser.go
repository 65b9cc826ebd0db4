package diff

import (
	"bufio"
	"fmt"
	"strings"
)

// MalformedError means the diff text cannot be decomposed into files,
// hunks and lines with consistent numbering. Callers must treat it as
// fatal for the whole run: a corrupt diff cannot be partially reviewed.
type MalformedError struct {
	Line   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed diff: %s: %q", e.Reason, e.Line)
}

const devNull = "/dev/null"

func Parse(patch string) ([]FileDiff, error) {

	var files []FileDiff
	var current *FileDiff
	var hunk *Hunk

	flushHunk := func() {
		if current != nil && hunk != nil {
			current.Hunks = append(current.Hunks, *hunk)
		}
		hunk = nil
	}

	flushFile := func() {
		flushHunk()
		if current != nil {
			files = append(files, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(strings.NewReader(patch))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		// New file section
		if strings.HasPrefix(line, "diff --git") {
			flushFile()
			current = &FileDiff{}
			continue
		}

		// Source path
		if hunk == nil && strings.HasPrefix(line, "--- ") {
			if current != nil {
				current.OldPath = parsePathLine(line, "--- ", "a/")
			}
			continue
		}

		// Target path; /dev/null marks a deleted file
		if hunk == nil && strings.HasPrefix(line, "+++ ") {
			if current != nil {
				current.NewPath = parsePathLine(line, "+++ ", "b/")
			}
			continue
		}

		// Hunk start
		if strings.HasPrefix(line, "@@") {
			if current == nil {
				return nil, &MalformedError{Line: line, Reason: "hunk outside file section"}
			}

			flushHunk()

			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, err
			}
			hunk = &h
			continue
		}

		if hunk == nil {
			// File metadata (index, mode, rename, binary notice)
			continue
		}

		// "\ No newline at end of file"
		if strings.HasPrefix(line, `\`) {
			continue
		}

		l, err := parseLine(line, hunk)
		if err != nil {
			return nil, err
		}
		hunk.Lines = append(hunk.Lines, l)
	}

	if err := scanner.Err(); err != nil {
		return nil, &MalformedError{Reason: "read diff", Line: err.Error()}
	}

	flushFile()

	return files, nil
}

func parsePathLine(line, prefix, side string) string {
	p := strings.TrimPrefix(line, prefix)

	// Paths may carry a trailing tab plus timestamp
	if i := strings.IndexByte(p, '\t'); i >= 0 {
		p = p[:i]
	}

	if p == devNull {
		return ""
	}

	return strings.TrimPrefix(p, side)
}
