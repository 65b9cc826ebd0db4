package worker

import (
	"context"
	"errors"

	"ai-pr-reviewer/internal/observability"
)

// Processor drains the job queue in the background and hands each job
// to the Reviewer. Job failures are logged and the loop keeps going; a
// server must not die because one pull request could not be reviewed.
type Processor struct {
	queue    Queue
	reviewer *Reviewer
	logger   *observability.Logger
}

func NewProcessor(q Queue, r *Reviewer, l *observability.Logger) *Processor {
	return &Processor{
		queue:    q,
		reviewer: r,
		logger:   l,
	}
}

func (p *Processor) Start(ctx context.Context) {

	go func() {
		for {
			job, err := p.queue.Pop(ctx)
			if err != nil {
				if errors.Is(ctx.Err(), context.Canceled) ||
					errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return
				}
				continue
			}

			p.handle(ctx, job)
		}
	}()
}

func (p *Processor) handle(ctx context.Context, j Job) {

	p.logger.Info("review job started",
		"repo", j.Repo,
		"pr", j.PR,
		"kind", j.Kind,
	)

	if err := p.reviewer.ReviewPR(ctx, j); err != nil {
		p.logger.Error("review job failed",
			"repo", j.Repo,
			"pr", j.PR,
			"err", err,
		)
	}
}
