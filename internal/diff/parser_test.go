package diff

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDiff = "diff --git a/main.go b/main.go\n" +
	"index 83db48f..bf269f4 100644\n" +
	"--- a/main.go\n" +
	"+++ b/main.go\n" +
	"@@ -1,4 +1,5 @@\n" +
	" package main\n" +
	"-func run() {}\n" +
	"+func run() error {\n" +
	"+\treturn nil\n" +
	" }\n" +
	"@@ -10,2 +11,3 @@\n" +
	" // trailer\n" +
	"+// added trailer\n" +
	" // end\n"

func TestParse_SingleFile(t *testing.T) {
	files, err := Parse(sampleDiff)
	require.NoError(t, err)
	require.Len(t, files, 1)

	f := files[0]
	require.Equal(t, "main.go", f.NewPath)
	require.Equal(t, "main.go", f.OldPath)
	require.False(t, f.Deleted())
	require.Len(t, f.Hunks, 2)

	h := f.Hunks[0]
	require.Equal(t, "@@ -1,4 +1,5 @@", h.Header)
	require.Equal(t, 1, h.OldStart)
	require.Equal(t, 1, h.NewStart)
	require.Len(t, h.Lines, 4)

	// context line carries both numbers
	require.Equal(t, Context, h.Lines[0].Type)
	require.Equal(t, 1, h.Lines[0].OldNumber)
	require.Equal(t, 1, h.Lines[0].NewNumber)

	// removed line carries only the old number
	require.Equal(t, Removed, h.Lines[1].Type)
	require.Equal(t, 2, h.Lines[1].OldNumber)
	require.Zero(t, h.Lines[1].NewNumber)

	// added lines carry only new numbers and keep advancing
	require.Equal(t, Added, h.Lines[2].Type)
	require.Equal(t, 2, h.Lines[2].NewNumber)
	require.Zero(t, h.Lines[2].OldNumber)
	require.Equal(t, 3, h.Lines[3].NewNumber)

	h2 := f.Hunks[1]
	require.Equal(t, 10, h2.OldStart)
	require.Equal(t, 11, h2.NewStart)
	require.Equal(t, 12, h2.Lines[1].NewNumber)
}

func TestParse_EveryLineHasANumber(t *testing.T) {
	files, err := Parse(sampleDiff)
	require.NoError(t, err)

	for _, f := range files {
		for _, h := range f.Hunks {
			for _, l := range h.Lines {
				require.Positive(t, l.DisplayNumber(), "line %q", l.Content)
				if l.Type == Context {
					require.Positive(t, l.OldNumber)
					require.Positive(t, l.NewNumber)
				}
			}
		}
	}
}

// The added+context lines of a parsed file must reproduce the visible
// new-side content, in order.
func TestParse_NewSideReconstruction(t *testing.T) {
	files, err := Parse(sampleDiff)
	require.NoError(t, err)

	var got []string
	for _, h := range files[0].Hunks[0].Lines {
		if h.Type == Added || h.Type == Context {
			got = append(got, h.Content)
		}
	}

	require.Equal(t, []string{
		"package main",
		"func run() error {",
		"\treturn nil",
		"}",
	}, got)
}

func TestParse_MultipleFilesKeepOrder(t *testing.T) {
	patch := sampleDiff +
		"diff --git a/util.go b/util.go\n" +
		"--- a/util.go\n" +
		"+++ b/util.go\n" +
		"@@ -1 +1 @@\n" +
		"-x\n" +
		"+y\n"

	files, err := Parse(patch)
	require.NoError(t, err)
	require.Len(t, files, 2)
	require.Equal(t, "main.go", files[0].NewPath)
	require.Equal(t, "util.go", files[1].NewPath)
}

func TestParse_DeletedFile(t *testing.T) {
	patch := "diff --git a/old.go b/old.go\n" +
		"deleted file mode 100644\n" +
		"--- a/old.go\n" +
		"+++ /dev/null\n" +
		"@@ -1,2 +0,0 @@\n" +
		"-package old\n" +
		"-func gone() {}\n"

	files, err := Parse(patch)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.True(t, files[0].Deleted())
	require.Empty(t, files[0].TargetPath())
	require.Equal(t, "old.go", files[0].OldPath)
	require.Equal(t, 1, files[0].Hunks[0].Lines[0].OldNumber)
}

func TestParse_AddedFile(t *testing.T) {
	patch := "diff --git a/new.go b/new.go\n" +
		"new file mode 100644\n" +
		"--- /dev/null\n" +
		"+++ b/new.go\n" +
		"@@ -0,0 +1,2 @@\n" +
		"+package new\n" +
		"+func fresh() {}\n"

	files, err := Parse(patch)
	require.NoError(t, err)
	require.Equal(t, "new.go", files[0].NewPath)
	require.Empty(t, files[0].OldPath)
	require.Equal(t, 1, files[0].Hunks[0].Lines[0].NewNumber)
	require.Equal(t, 2, files[0].Hunks[0].Lines[1].NewNumber)
}

func TestParse_MalformedHunkHeader(t *testing.T) {
	patch := "diff --git a/x.go b/x.go\n" +
		"--- a/x.go\n" +
		"+++ b/x.go\n" +
		"@@ bogus @@\n" +
		"+whatever\n"

	_, err := Parse(patch)
	require.Error(t, err)

	var malformed *MalformedError
	require.True(t, errors.As(err, &malformed))
	require.Contains(t, malformed.Error(), "hunk header")
}

func TestParse_NoNewlineMarkerSkipped(t *testing.T) {
	patch := "diff --git a/x.txt b/x.txt\n" +
		"--- a/x.txt\n" +
		"+++ b/x.txt\n" +
		"@@ -1 +1 @@\n" +
		"-a\n" +
		"+b\n" +
		"\\ No newline at end of file\n"

	files, err := Parse(patch)
	require.NoError(t, err)
	require.Len(t, files[0].Hunks[0].Lines, 2)
}

func TestLine_Raw(t *testing.T) {
	files, err := Parse(sampleDiff)
	require.NoError(t, err)

	lines := files[0].Hunks[0].Lines
	require.Equal(t, " package main", lines[0].Raw())
	require.Equal(t, "-func run() {}", lines[1].Raw())
	require.True(t, strings.HasPrefix(lines[2].Raw(), "+"))
}
