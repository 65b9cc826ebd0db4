package github

// PRDetails is the change-set metadata used for prompting.
type PRDetails struct {
	Title       string
	Description string
	HeadSHA     string
}

// Review is one batched review action. GitHub applies it atomically:
// either all comments land or none do.
type Review struct {
	Body     string
	Event    string
	Comments []ReviewComment
}

type ReviewComment struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Body string `json:"body"`
	Side string `json:"side"` // RIGHT = new code
}
