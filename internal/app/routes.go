package app

import (
	"net/http"

	"ai-pr-reviewer/internal/dedup"
	"ai-pr-reviewer/internal/github"
	"ai-pr-reviewer/internal/observability"
	"ai-pr-reviewer/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {

	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.health)

	queue := worker.NewQueue(s.cfg)

	// Adapter so the github package doesn't know the worker package.
	adapter := worker.NewAdapter(queue)

	// Processed delivery IDs; redelivered webhooks become no-ops.
	deliveries := dedup.NewMemory()

	wh := github.NewWebhookHandler(
		s.cfg,
		s.logger,
		adapter,
		deliveries,
	)

	reviewer := worker.Build(s.cfg, s.logger)
	s.processor = worker.NewProcessor(queue, reviewer, s.logger)

	observability.InitMetrics()

	mux.HandleFunc("/webhook/github", wh.Handle)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}
