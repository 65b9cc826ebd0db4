// Package prompt renders the instruction document sent to the completion
// backend for one hunk. Rendering is deterministic: identical inputs
// always produce byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"ai-pr-reviewer/internal/diff"
)

// ChangeContext carries the change-set metadata embedded in every prompt.
type ChangeContext struct {
	Repo        string
	Number      int
	Title       string
	Description string
}

const instructions = `Your task is to review a pull request diff hunk. Instructions:

- Respond ONLY in the following JSON format, with no other text:
  {"reviews": [{"lineNumber": <line_number>, "reviewComment": "<review comment>"}]}
- Report ONLY severe defects. A defect is severe when it would cause a
  crash, data loss or corruption, a security vulnerability, or a severe
  performance regression.
- Do NOT comment on any of the following, under any circumstances:
  code style, naming, formatting, missing comments or documentation,
  missing tests, minor performance concerns, refactoring opportunities,
  or personal preference.
- If nothing qualifies, respond with {"reviews": []}.
- Write each comment in GitHub Markdown.
- Use the pull request title and description for overall context only;
  comment only on the code in the hunk.
- IMPORTANT: NEVER suggest adding comments to the code.`

// Build renders the full prompt for one hunk of one file.
func Build(file diff.FileDiff, hunk diff.Hunk, ctx ChangeContext) string {

	var b strings.Builder

	b.WriteString(instructions)
	b.WriteString("\n\nReview the following code diff in the file \"")
	b.WriteString(file.TargetPath())
	b.WriteString("\" and take the pull request title and description into account when writing the response.\n")

	b.WriteString("\nPull request title: ")
	b.WriteString(ctx.Title)
	b.WriteString("\n\nPull request description:\n\n---\n")
	b.WriteString(ctx.Description)
	b.WriteString("\n---\n")

	b.WriteString("\nGit diff to review:\n\n```diff\n")
	b.WriteString(hunk.Header)
	b.WriteByte('\n')
	for _, l := range hunk.Lines {
		fmt.Fprintf(&b, "%d %s\n", l.DisplayNumber(), l.Raw())
	}
	b.WriteString("```\n")

	return b.String()
}
