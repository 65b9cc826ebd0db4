package worker

import "context"

// Queue is the internal job queue abstraction. The webhook side never
// sees it; it enqueues through the narrow github.JobQueue adapter.
type Queue interface {
	Push(ctx context.Context, j Job) error
	Pop(ctx context.Context) (Job, error)
}

// Job is one review request for one pull request. Incremental jobs
// carry the before/after head SHAs so only the new commits are diffed.
type Job struct {
	Repo string `json:"repo"`
	PR   int    `json:"pr"`
	Kind string `json:"kind"` // "full" | "incremental"
	Base string `json:"base,omitempty"`
	Head string `json:"head,omitempty"`
}
