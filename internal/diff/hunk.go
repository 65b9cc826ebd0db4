package diff

import (
	"regexp"
	"strconv"
)

var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

func parseHunkHeader(line string) (Hunk, error) {

	m := hunkRe.FindStringSubmatch(line)
	if m == nil {
		return Hunk{}, &MalformedError{Line: line, Reason: "unparsable hunk header"}
	}

	oldStart, _ := strconv.Atoi(m[1])
	newStart, _ := strconv.Atoi(m[2])

	return Hunk{
		Header:   line,
		OldStart: oldStart,
		NewStart: newStart,
		oldNext:  oldStart,
		newNext:  newStart,
	}, nil
}
