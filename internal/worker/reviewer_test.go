package worker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ai-pr-reviewer/internal/ai"
	"ai-pr-reviewer/internal/budget"
	"ai-pr-reviewer/internal/config"
	"ai-pr-reviewer/internal/diff"
	"ai-pr-reviewer/internal/github"
	"ai-pr-reviewer/internal/observability"
	"ai-pr-reviewer/internal/ratelimit"
)

type clientStub struct {
	mu sync.Mutex

	details github.PRDetails
	diff    string
	compare string

	compareCalls int
	reviews      []github.Review
	reviewErr    error
}

func (c *clientStub) GetPullRequest(ctx context.Context, repo string, pr int) (github.PRDetails, error) {
	return c.details, nil
}

func (c *clientStub) GetDiff(ctx context.Context, repo string, pr int) (string, error) {
	return c.diff, nil
}

func (c *clientStub) CompareDiff(ctx context.Context, repo, base, head string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.compareCalls++
	return c.compare, nil
}

func (c *clientStub) CreateReview(ctx context.Context, repo string, pr int, review github.Review) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reviewErr != nil {
		return c.reviewErr
	}
	c.reviews = append(c.reviews, review)
	return nil
}

// providerStub answers per prompt, so tests can give different hunks
// different fates regardless of completion order.
type providerStub struct {
	mu      sync.Mutex
	prompts []string
	answer  func(prompt string) (string, error)
}

func (p *providerStub) Review(ctx context.Context, r ai.ReviewRequest) (ai.ReviewResponse, error) {
	p.mu.Lock()
	p.prompts = append(p.prompts, r.Prompt)
	p.mu.Unlock()

	content, err := p.answer(r.Prompt)
	if err != nil {
		return ai.ReviewResponse{}, err
	}
	return ai.ReviewResponse{
		Content:  content,
		Provider: "openai",
		Model:    "gpt-4o-mini",
	}, nil
}

func (p *providerStub) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

func answerAll(content string) func(string) (string, error) {
	return func(string) (string, error) { return content, nil }
}

func testConfig() *config.Config {
	return &config.Config{
		Env:            "local",
		LogLevel:       "error",
		AIProvider:     "openai",
		ReviewWorkers:  2,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
}

func newTestReviewer(t *testing.T, cfg *config.Config, client github.Client, provider ai.Provider, guard *budget.Guard) *Reviewer {
	t.Helper()
	return NewReviewer(
		cfg,
		client,
		provider,
		observability.NewLogger(cfg),
		ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst),
		guard,
	)
}

const addedLineDiff = "diff --git a/main.go b/main.go\n" +
	"index 1111111..2222222 100644\n" +
	"--- a/main.go\n" +
	"+++ b/main.go\n" +
	"@@ -8,3 +8,4 @@ func handler() {\n" +
	" \tctx := r.Context()\n" +
	" \tuser := session.User(ctx)\n" +
	"+\tname := user.Name\n" +
	" \t_ = name\n"

const deletedFileDiff = "diff --git a/old.go b/old.go\n" +
	"deleted file mode 100644\n" +
	"--- a/old.go\n" +
	"+++ /dev/null\n" +
	"@@ -1,2 +0,0 @@\n" +
	"-package old\n" +
	"-var unused = 1\n"

func TestReviewPR_PostsAnchoredComment(t *testing.T) {
	client := &clientStub{
		details: github.PRDetails{Title: "Add handler", Description: "adds a handler"},
		diff:    addedLineDiff,
	}
	provider := &providerStub{
		answer: answerAll(`{"reviews":[{"lineNumber":"10","reviewComment":"Null check missing, will crash"}]}`),
	}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7, Kind: github.JobFull})
	require.NoError(t, err)

	require.Len(t, client.reviews, 1)
	posted := client.reviews[0]
	require.Equal(t, "COMMENT", posted.Event)
	require.Len(t, posted.Comments, 1)
	require.Equal(t, github.ReviewComment{
		Path: "main.go",
		Line: 10,
		Body: "Null check missing, will crash",
		Side: "RIGHT",
	}, posted.Comments[0])
}

func TestReviewPR_DeletedFileSkippedBeforeBackend(t *testing.T) {
	client := &clientStub{diff: deletedFileDiff}
	provider := &providerStub{
		answer: answerAll(`{"reviews":[{"lineNumber":"1","reviewComment":"should never be asked"}]}`),
	}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)

	require.Zero(t, provider.calls())
	require.Empty(t, client.reviews)
}

func TestReviewPR_ExcludedFileNeverPrompted(t *testing.T) {
	lockDiff := "diff --git a/package.lock b/package.lock\n" +
		"--- a/package.lock\n" +
		"+++ b/package.lock\n" +
		"@@ -1,1 +1,1 @@\n" +
		"-v1\n" +
		"+v2\n"

	cfg := testConfig()
	cfg.ExcludePatterns = []string{"*.lock"}

	client := &clientStub{diff: lockDiff + addedLineDiff}
	provider := &providerStub{answer: answerAll(`{"reviews":[]}`)}

	r := newTestReviewer(t, cfg, client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)

	require.Equal(t, 1, provider.calls())
	require.NotContains(t, provider.prompts[0], "package.lock")
	require.Contains(t, provider.prompts[0], "main.go")
}

func TestReviewPR_ZeroFindingsMeansZeroSideEffects(t *testing.T) {
	client := &clientStub{diff: addedLineDiff}
	provider := &providerStub{answer: answerAll(`{"reviews":[]}`)}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)

	require.Equal(t, 1, provider.calls())
	require.Empty(t, client.reviews)
}

func TestReviewPR_HunkFailureIsolated(t *testing.T) {
	secondFile := "diff --git a/other.go b/other.go\n" +
		"--- a/other.go\n" +
		"+++ b/other.go\n" +
		"@@ -1,1 +1,2 @@\n" +
		" package other\n" +
		"+var racy int\n"

	client := &clientStub{diff: addedLineDiff + secondFile}
	provider := &providerStub{
		answer: func(prompt string) (string, error) {
			if strings.Contains(prompt, "main.go") {
				return "", errors.New("backend unreachable")
			}
			return `{"reviews":[{"lineNumber":2,"reviewComment":"Unsynchronized write, data race"}]}`, nil
		},
	}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)

	require.Equal(t, 2, provider.calls())
	require.Len(t, client.reviews, 1)
	require.Len(t, client.reviews[0].Comments, 1)
	require.Equal(t, "other.go", client.reviews[0].Comments[0].Path)
	require.Equal(t, 2, client.reviews[0].Comments[0].Line)
}

func TestReviewPR_UnparsableResponseIsolated(t *testing.T) {
	client := &clientStub{diff: addedLineDiff}
	provider := &providerStub{
		answer: answerAll("Sure! Here is what I think about the diff..."),
	}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)
	require.Empty(t, client.reviews)
}

func TestReviewPR_CommentsSortedByPathAndLine(t *testing.T) {
	twoFiles := "diff --git a/zeta.go b/zeta.go\n" +
		"--- a/zeta.go\n" +
		"+++ b/zeta.go\n" +
		"@@ -1,1 +1,2 @@\n" +
		" package zeta\n" +
		"+var z = 1\n" +
		"diff --git a/alpha.go b/alpha.go\n" +
		"--- a/alpha.go\n" +
		"+++ b/alpha.go\n" +
		"@@ -1,1 +1,2 @@\n" +
		" package alpha\n" +
		"+var a = 1\n"

	client := &clientStub{diff: twoFiles}
	provider := &providerStub{
		answer: func(prompt string) (string, error) {
			if strings.Contains(prompt, "zeta.go") {
				return `{"reviews":[{"lineNumber":"2","reviewComment":"z"}]}`, nil
			}
			return `{"reviews":[{"lineNumber":"2","reviewComment":"a"}]}`, nil
		},
	}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)

	require.Len(t, client.reviews, 1)
	comments := client.reviews[0].Comments
	require.Len(t, comments, 2)
	require.Equal(t, "alpha.go", comments[0].Path)
	require.Equal(t, "zeta.go", comments[1].Path)
}

func TestReviewPR_MalformedDiffIsFatal(t *testing.T) {
	client := &clientStub{
		diff: "diff --git a/x.go b/x.go\n" +
			"--- a/x.go\n" +
			"+++ b/x.go\n" +
			"@@ not a hunk header @@\n" +
			"+x\n",
	}
	provider := &providerStub{answer: answerAll(`{"reviews":[]}`)}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})

	var malformed *diff.MalformedError
	require.ErrorAs(t, err, &malformed)
	require.Zero(t, provider.calls())
	require.Empty(t, client.reviews)
}

func TestReviewPR_MalformedLineTokenDropped(t *testing.T) {
	client := &clientStub{diff: addedLineDiff}
	provider := &providerStub{
		answer: answerAll(`{"reviews":[` +
			`{"lineNumber":"not-a-line","reviewComment":"dropped"},` +
			`{"lineNumber":"10","reviewComment":"kept"}]}`),
	}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)

	require.Len(t, client.reviews, 1)
	require.Len(t, client.reviews[0].Comments, 1)
	require.Equal(t, "kept", client.reviews[0].Comments[0].Body)
}

func TestReviewPR_IncrementalJobUsesCompareDiff(t *testing.T) {
	client := &clientStub{compare: addedLineDiff}
	provider := &providerStub{answer: answerAll(`{"reviews":[]}`)}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{
		Repo: "acme/repo",
		PR:   7,
		Kind: github.JobIncremental,
		Base: "abc123",
		Head: "def456",
	})
	require.NoError(t, err)
	require.Equal(t, 1, client.compareCalls)
	require.Equal(t, 1, provider.calls())
}

func TestReviewPR_BudgetBlockSkipsBackend(t *testing.T) {
	store := budget.NewMemoryStore()
	guard := budget.NewGuard(true, 100, 0.01, store)

	// Spend already over the per-PR ceiling.
	require.NoError(t, guard.Record(context.Background(), "acme/repo", 7, 0.5, time.Now()))

	client := &clientStub{diff: addedLineDiff}
	provider := &providerStub{answer: answerAll(`{"reviews":[]}`)}

	r := newTestReviewer(t, testConfig(), client, provider, guard)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.NoError(t, err)

	require.Zero(t, provider.calls())
	require.Empty(t, client.reviews)
}

func TestReviewPR_SubmissionFailureReported(t *testing.T) {
	client := &clientStub{
		diff:      addedLineDiff,
		reviewErr: errors.New("422 unprocessable"),
	}
	provider := &providerStub{
		answer: answerAll(`{"reviews":[{"lineNumber":"10","reviewComment":"boom"}]}`),
	}

	r := newTestReviewer(t, testConfig(), client, provider, nil)

	err := r.ReviewPR(context.Background(), Job{Repo: "acme/repo", PR: 7})
	require.Error(t, err)
	require.Contains(t, err.Error(), "submit review")
}
