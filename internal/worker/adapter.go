package worker

import (
	"context"

	"ai-pr-reviewer/internal/github"
)

// Adapter implements github.JobQueue so the webhook package does not
// depend on the worker package.
type Adapter struct {
	q Queue
}

func NewAdapter(q Queue) *Adapter {
	return &Adapter{q: q}
}

func (a *Adapter) Enqueue(ctx context.Context, job github.ReviewJob) error {
	return a.q.Push(ctx, Job{
		Repo: job.Repo,
		PR:   job.PR,
		Kind: job.Kind,
		Base: job.Base,
		Head: job.Head,
	})
}
