package github

import "context"

type Client interface {
	GetPullRequest(ctx context.Context, repo string, pr int) (PRDetails, error)
	GetDiff(ctx context.Context, repo string, pr int) (string, error)
	CompareDiff(ctx context.Context, repo, base, head string) (string, error)
	CreateReview(ctx context.Context, repo string, pr int, review Review) error
}
