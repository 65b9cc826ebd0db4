package worker

import (
	"ai-pr-reviewer/internal/ai"
	"ai-pr-reviewer/internal/budget"
	"ai-pr-reviewer/internal/config"
	"ai-pr-reviewer/internal/github"
	"ai-pr-reviewer/internal/observability"
	"ai-pr-reviewer/internal/ratelimit"
)

func NewQueue(cfg *config.Config) Queue {

	if cfg.QueueType == "redis" {
		return NewRedisQueue(
			cfg.RedisAddr,
			"pr_review_jobs",
		)
	}

	return NewMemoryQueue(100)
}

// Build assembles a Reviewer from configuration: the GitHub client, the
// completion provider behind a circuit breaker with an Ollama fallback,
// the per-repo rate limiter, and the budget guard. Used by both the
// webhook server and the one-shot command.
func Build(cfg *config.Config, logger *observability.Logger) *Reviewer {

	client := github.NewClient(cfg, logger)

	provider := ai.NewCircuitBreaker(ai.NewProvider(cfg))

	fallback := ai.NewFallback(
		provider,
		ai.NewOllama(cfg.OllamaURL, cfg.OllamaModel),
	)

	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)

	guard := budget.NewGuard(
		cfg.BudgetEnabled,
		cfg.BudgetDailyUSD,
		cfg.BudgetPRUSD,
		budget.NewMemoryStore(),
	)

	return NewReviewer(cfg, client, fallback, logger, limiter, guard)
}
