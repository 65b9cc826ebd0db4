package diff

// FileDiff is one file section of a unified diff. NewPath is empty for
// deleted files; such files stay in the model but are never commented on.
type FileDiff struct {
	OldPath string
	NewPath string
	Hunks   []Hunk
}

func (f FileDiff) Deleted() bool {
	return f.NewPath == ""
}

// TargetPath is the path a review comment would be anchored to.
func (f FileDiff) TargetPath() string {
	return f.NewPath
}

type Hunk struct {
	// Header is the raw @@ line, kept verbatim for prompting.
	Header   string
	OldStart int
	NewStart int
	Lines    []Line

	// parse cursors
	oldNext int
	newNext int
}

type Line struct {
	Type    LineType
	Content string

	// OldNumber is set for context and removed lines, NewNumber for
	// context and added lines. Zero means absent; every line has at
	// least one of the two.
	OldNumber int
	NewNumber int
}

type LineType string

const (
	Added   LineType = "added"
	Removed LineType = "removed"
	Context LineType = "context"
)

// DisplayNumber is the line number shown to the reviewer model,
// preferring the new side.
func (l Line) DisplayNumber() int {
	if l.NewNumber > 0 {
		return l.NewNumber
	}
	return l.OldNumber
}

// Raw reconstructs the line as it appeared in the diff, prefix included.
func (l Line) Raw() string {
	switch l.Type {
	case Added:
		return "+" + l.Content
	case Removed:
		return "-" + l.Content
	default:
		return " " + l.Content
	}
}
