package worker

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"ai-pr-reviewer/internal/ai"
	"ai-pr-reviewer/internal/budget"
	"ai-pr-reviewer/internal/config"
	"ai-pr-reviewer/internal/cost"
	"ai-pr-reviewer/internal/diff"
	"ai-pr-reviewer/internal/filter"
	"ai-pr-reviewer/internal/github"
	"ai-pr-reviewer/internal/observability"
	"ai-pr-reviewer/internal/prompt"
	"ai-pr-reviewer/internal/ratelimit"
	"ai-pr-reviewer/internal/retry"
	"ai-pr-reviewer/internal/review"
)

// Reviewer runs the diff-to-findings pipeline for one pull request:
// fetch metadata and diff, decompose into hunks, ask the completion
// backend about each hunk, and post surviving findings as one batched
// review. A hunk's backend failure never aborts its siblings; only a
// malformed diff or a rejected submission fails the run.
type Reviewer struct {
	cfg         *config.Config
	client      github.Client
	ai          ai.Provider
	logger      *observability.Logger
	rateLimiter *ratelimit.Limiter
	guard       *budget.Guard
}

func NewReviewer(
	cfg *config.Config,
	client github.Client,
	provider ai.Provider,
	logger *observability.Logger,
	rl *ratelimit.Limiter,
	guard *budget.Guard,
) *Reviewer {
	return &Reviewer{
		cfg:         cfg,
		client:      client,
		ai:          provider,
		logger:      logger,
		rateLimiter: rl,
		guard:       guard,
	}
}

// hunkTask identifies one unit of work by (file index, hunk index).
// Results land in one slot per task so completion order never matters.
type hunkTask struct {
	file int
	hunk int
}

func (r *Reviewer) ReviewPR(ctx context.Context, j Job) error {

	details, err := r.client.GetPullRequest(ctx, j.Repo, j.PR)
	if err != nil {
		return fmt.Errorf("get pull request %s#%d: %w", j.Repo, j.PR, err)
	}

	diffText, err := r.fetchDiff(ctx, j)
	if err != nil {
		return fmt.Errorf("fetch diff %s#%d: %w", j.Repo, j.PR, err)
	}

	// A corrupt diff cannot be partially reviewed; this is fatal.
	files, err := diff.Parse(diffText)
	if err != nil {
		return err
	}

	files = filter.Exclude(files, r.cfg.ExcludePatterns)

	changeCtx := prompt.ChangeContext{
		Repo:        j.Repo,
		Number:      j.PR,
		Title:       details.Title,
		Description: details.Description,
	}

	var tasks []hunkTask
	for fi, f := range files {
		// A deleted file cannot receive line comments; skip it
		// before any hunk work.
		if f.Deleted() {
			continue
		}
		for hi := range f.Hunks {
			tasks = append(tasks, hunkTask{file: fi, hunk: hi})
		}
	}

	comments := r.reviewHunks(ctx, j, files, tasks, changeCtx)

	if len(comments) == 0 {
		r.logger.Info("no findings, nothing to post",
			"repo", j.Repo,
			"pr", j.PR,
			"hunks", len(tasks),
		)
		return nil
	}

	// Completion order is nondeterministic under the worker pool;
	// re-sort so the posted review is stable.
	sort.Slice(comments, func(a, b int) bool {
		if comments[a].Path != comments[b].Path {
			return comments[a].Path < comments[b].Path
		}
		return comments[a].Line < comments[b].Line
	})

	ghReview := github.Review{
		Body:     summaryBody(len(comments), files),
		Event:    "COMMENT",
		Comments: make([]github.ReviewComment, 0, len(comments)),
	}
	for _, c := range comments {
		ghReview.Comments = append(ghReview.Comments, github.ReviewComment{
			Path: c.Path,
			Line: c.Line,
			Body: c.Body,
			Side: "RIGHT",
		})
	}

	err = retry.Do(ctx, 3, time.Second, func() error {
		return r.client.CreateReview(ctx, j.Repo, j.PR, ghReview)
	})
	if err != nil {
		return fmt.Errorf("submit review %s#%d: %w", j.Repo, j.PR, err)
	}

	observability.CommentsPosted.Add(float64(len(comments)))

	r.logger.Info("review posted",
		"repo", j.Repo,
		"pr", j.PR,
		"comments", len(comments),
	)

	return nil
}

func (r *Reviewer) fetchDiff(ctx context.Context, j Job) (string, error) {
	if j.Kind == github.JobIncremental && j.Base != "" && j.Head != "" {
		return r.client.CompareDiff(ctx, j.Repo, j.Base, j.Head)
	}
	return r.client.GetDiff(ctx, j.Repo, j.PR)
}

// reviewHunks fans the tasks out to a bounded worker pool. Each task
// writes into its own result slot; the slots are merged after every
// worker has finished, so attribution is independent of completion
// order and one hunk's failure cannot touch another's result.
func (r *Reviewer) reviewHunks(
	ctx context.Context,
	j Job,
	files []diff.FileDiff,
	tasks []hunkTask,
	changeCtx prompt.ChangeContext,
) []review.Comment {

	workers := r.cfg.ReviewWorkers
	if workers < 1 {
		workers = 1
	}

	limiter := r.rateLimiter.Get(j.Repo)

	// Once the budget guard trips, the job's remaining hunks are
	// skipped; already-collected findings still get posted.
	var budgetBlocked atomic.Bool

	slots := make([][]review.Comment, len(tasks))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, t := range tasks {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, t hunkTask) {
			defer wg.Done()
			defer func() { <-sem }()

			if budgetBlocked.Load() {
				return
			}

			slots[i] = r.reviewOneHunk(
				ctx, j, limiter, &budgetBlocked,
				files[t.file], files[t.file].Hunks[t.hunk], changeCtx,
			)
		}(i, t)
	}

	wg.Wait()

	var comments []review.Comment
	for _, slot := range slots {
		comments = append(comments, slot...)
	}
	return comments
}

// reviewOneHunk is one hunk's round trip: rate limit, budget check,
// prompt, backend call, response parse, finding mapping. Every failure
// path returns nil ("no usable result") and is logged; nothing here may
// abort sibling hunks.
func (r *Reviewer) reviewOneHunk(
	ctx context.Context,
	j Job,
	limiter ratelimit.Waiter,
	budgetBlocked *atomic.Bool,
	file diff.FileDiff,
	hunk diff.Hunk,
	changeCtx prompt.ChangeContext,
) []review.Comment {

	if err := limiter.Wait(ctx); err != nil {
		r.logger.Error("rate limiter wait failed",
			"repo", j.Repo,
			"err", err,
		)
		return nil
	}

	if r.guard.Enabled() {
		allowed, reason, err := r.guard.Allow(ctx, j.Repo, j.PR, 0, time.Now())
		if err != nil {
			r.logger.Error("budget check failed", "err", err)
		} else if !allowed {
			if budgetBlocked.CompareAndSwap(false, true) {
				observability.BudgetBlocks.WithLabelValues("job").Inc()
				r.logger.Warn("budget guard triggered, skipping remaining hunks",
					"repo", j.Repo,
					"pr", j.PR,
					"reason", reason,
				)
			}
			return nil
		}
	}

	hctx := ctx
	if r.cfg.HunkTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		hctx, cancel = context.WithTimeout(
			ctx,
			time.Duration(r.cfg.HunkTimeoutSeconds)*time.Second,
		)
		defer cancel()
	}

	p := prompt.Build(file, hunk, changeCtx)

	observability.HunksReviewed.Inc()
	start := time.Now()

	resp, err := r.ai.Review(hctx, ai.ReviewRequest{Prompt: p})

	elapsed := time.Since(start).Seconds()
	observability.AICalls.WithLabelValues(r.cfg.AIProvider).Inc()
	observability.AILatency.WithLabelValues(r.cfg.AIProvider).Observe(elapsed)

	if err != nil {
		observability.AIErrors.WithLabelValues(r.cfg.AIProvider).Inc()
		observability.HunksUnusable.Inc()
		r.logger.Error("completion backend failed",
			"file", file.TargetPath(),
			"hunk", hunk.Header,
			"err", err,
		)
		return nil
	}

	r.recordUsage(ctx, j, resp)

	findings, err := ai.ParseFindings(resp.Content)
	if err != nil {
		observability.HunksUnusable.Inc()
		r.logger.Error("unusable backend response",
			"file", file.TargetPath(),
			"hunk", hunk.Header,
			"err", err,
		)
		return nil
	}

	return review.MapFindings(file, findings, func(reason string, kv ...any) {
		observability.FindingsDropped.WithLabelValues(reason).Inc()
		r.logger.Warn("finding dropped", append([]any{"reason", reason}, kv...)...)
	})
}

func (r *Reviewer) recordUsage(ctx context.Context, j Job, resp ai.ReviewResponse) {

	observability.AITokens.WithLabelValues(resp.Provider, resp.Model, "prompt").
		Add(float64(resp.Usage.PromptTokens))
	observability.AITokens.WithLabelValues(resp.Provider, resp.Model, "completion").
		Add(float64(resp.Usage.CompletionTokens))

	usd := cost.EstimateUSD(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if usd <= 0 {
		return
	}

	observability.AICostUSD.WithLabelValues(resp.Provider, resp.Model).Add(usd)

	if err := r.guard.Record(ctx, j.Repo, j.PR, usd, time.Now()); err != nil {
		r.logger.Error("budget record failed", "err", err)
	}
}

func summaryBody(comments int, files []diff.FileDiff) string {
	paths := make(map[string]struct{})
	for _, f := range files {
		if !f.Deleted() {
			paths[f.TargetPath()] = struct{}{}
		}
	}
	return fmt.Sprintf(
		"Automated review: flagged %d severe issue(s) across %d reviewed file(s).",
		comments, len(paths),
	)
}
