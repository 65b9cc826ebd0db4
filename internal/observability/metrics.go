package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerMetricsOnce sync.Once

	AICalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pr_reviewer_ai_calls_total",
			Help: "Total completion backend calls",
		},
		[]string{"provider"},
	)

	AIErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pr_reviewer_ai_errors_total",
			Help: "Total completion backend errors",
		},
		[]string{"provider"},
	)

	AILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pr_reviewer_ai_latency_seconds",
			Help:    "Completion backend call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	AITokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pr_reviewer_ai_tokens_total",
			Help: "Total completion backend tokens",
		},
		[]string{"provider", "model", "type"},
	)

	AICostUSD = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pr_reviewer_ai_cost_usd_total",
			Help: "Total estimated AI cost in USD",
		},
		[]string{"provider", "model"},
	)

	HunksReviewed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pr_reviewer_hunks_reviewed_total",
			Help: "Total hunks sent for review",
		},
	)

	HunksUnusable = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pr_reviewer_hunks_unusable_total",
			Help: "Total hunks with no usable backend result",
		},
	)

	FindingsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pr_reviewer_findings_dropped_total",
			Help: "Total findings dropped before posting",
		},
		[]string{"reason"},
	)

	CommentsPosted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pr_reviewer_comments_posted_total",
			Help: "Total review comments posted",
		},
	)

	BudgetBlocks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pr_reviewer_budget_block_total",
			Help: "Total budget block events",
		},
		[]string{"scope"},
	)
)

func InitMetrics() {
	registerMetricsOnce.Do(func() {
		prometheus.MustRegister(
			AICalls,
			AIErrors,
			AILatency,
			AITokens,
			AICostUSD,
			HunksReviewed,
			HunksUnusable,
			FindingsDropped,
			CommentsPosted,
			BudgetBlocks,
		)
	})
}
