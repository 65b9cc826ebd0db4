package review

// Comment is one line-anchored review comment, ready for submission.
// Line refers to the new version of the file within the reviewed hunk.
type Comment struct {
	Path string
	Line int
	Body string
}
