package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"ai-pr-reviewer/internal/github"
)

func TestMemoryQueue_RoundTrip(t *testing.T) {
	q := NewMemoryQueue(2)

	job := Job{Repo: "acme/repo", PR: 3, Kind: github.JobFull}
	require.NoError(t, q.Push(context.Background(), job))

	got, err := q.Pop(context.Background())
	require.NoError(t, err)
	require.Equal(t, job, got)
}

func TestMemoryQueue_PopHonorsContext(t *testing.T) {
	q := NewMemoryQueue(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := q.Pop(ctx)
	require.Error(t, err)
}

func TestAdapter_TranslatesReviewJob(t *testing.T) {
	q := NewMemoryQueue(1)
	a := NewAdapter(q)

	err := a.Enqueue(context.Background(), github.ReviewJob{
		Repo: "acme/repo",
		PR:   9,
		Kind: github.JobIncremental,
		Base: "abc",
		Head: "def",
	})
	require.NoError(t, err)

	got, err := q.Pop(context.Background())
	require.NoError(t, err)
	require.Equal(t, Job{
		Repo: "acme/repo",
		PR:   9,
		Kind: github.JobIncremental,
		Base: "abc",
		Head: "def",
	}, got)
}
