package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"ai-pr-reviewer/internal/app"
	"ai-pr-reviewer/internal/config"
	"ai-pr-reviewer/internal/github"
	"ai-pr-reviewer/internal/observability"
	"ai-pr-reviewer/internal/worker"
)

func main() {

	cfg := config.Load()
	logger := observability.NewLogger(cfg)

	if len(os.Args) > 1 && os.Args[1] == "review" {
		if err := runOnce(cfg, logger); err != nil {
			logger.Error("review run failed", "err", err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	srv := app.NewServer(cfg, logger)

	if err := srv.Start(ctx); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// runOnce reviews a single pull request and exits, for CI-style use.
// The target is taken from the environment the way a checks runner
// would provide it.
func runOnce(cfg *config.Config, logger *observability.Logger) error {

	eventType := os.Getenv("EVENT_TYPE")
	repo := os.Getenv("REPO")
	pr, _ := strconv.Atoi(os.Getenv("PR_NUMBER"))

	job := worker.Job{Repo: repo, PR: pr}

	switch eventType {
	case "opened", "reopened":
		job.Kind = github.JobFull
	case "synchronize":
		job.Kind = github.JobIncremental
		job.Base = os.Getenv("BASE_SHA")
		job.Head = os.Getenv("HEAD_SHA")
	default:
		logger.Info("event type not reviewable, nothing to do",
			"event", eventType,
		)
		return nil
	}

	observability.InitMetrics()

	reviewer := worker.Build(cfg, logger)

	return reviewer.ReviewPR(context.Background(), job)
}
