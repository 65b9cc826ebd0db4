package filter

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ai-pr-reviewer/internal/diff"
)

func changed(paths ...string) []diff.FileDiff {
	files := make([]diff.FileDiff, 0, len(paths))
	for _, p := range paths {
		files = append(files, diff.FileDiff{OldPath: p, NewPath: p})
	}
	return files
}

func targets(files []diff.FileDiff) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.TargetPath())
	}
	return out
}

func TestExclude_NoPatternsKeepsEverything(t *testing.T) {
	files := changed("a.go", "b.md")
	require.Equal(t, files, Exclude(files, nil))
}

func TestExclude_LockfilePattern(t *testing.T) {
	files := changed("package.lock", "main.go")

	got := Exclude(files, []string{"*.lock"})

	require.Equal(t, []string{"main.go"}, targets(got))
}

func TestExclude_DoublestarPattern(t *testing.T) {
	files := changed("vendor/lib/x.go", "internal/app/y.go", "z.go")

	got := Exclude(files, []string{"vendor/**"})

	require.Equal(t, []string{"internal/app/y.go", "z.go"}, targets(got))
}

func TestExclude_CharacterClass(t *testing.T) {
	files := changed("img1.png", "img2.png", "imgx.png")

	got := Exclude(files, []string{"img[0-9].png"})

	require.Equal(t, []string{"imgx.png"}, targets(got))
}

func TestExclude_PreservesOrder(t *testing.T) {
	files := changed("c.go", "a.go", "b.md", "d.go")

	got := Exclude(files, []string{"*.md"})

	require.Equal(t, []string{"c.go", "a.go", "d.go"}, targets(got))
}

func TestExclude_Idempotent(t *testing.T) {
	files := changed("a.lock", "b.go", "docs/readme.md")
	patterns := []string{"*.lock", "docs/**"}

	once := Exclude(files, patterns)
	twice := Exclude(once, patterns)

	require.Equal(t, once, twice)
}
