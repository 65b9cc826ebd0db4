package github

import "context"

// ReviewJob is what the webhook hands off for background processing.
type ReviewJob struct {
	Repo string
	PR   int
	Kind string // "full" | "incremental"
	Base string
	Head string
}

const (
	JobFull        = "full"
	JobIncremental = "incremental"
)

// Webhook only knows THIS interface
type JobQueue interface {
	Enqueue(ctx context.Context, job ReviewJob) error
}
