package github

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"ai-pr-reviewer/internal/config"
	"ai-pr-reviewer/internal/dedup"
	"ai-pr-reviewer/internal/observability"
)

type WebhookHandler struct {
	cfg        *config.Config
	logger     *observability.Logger
	queue      JobQueue
	deliveries dedup.Store
}

func NewWebhookHandler(
	cfg *config.Config,
	logger *observability.Logger,
	queue JobQueue,
	deliveries dedup.Store,
) *WebhookHandler {
	return &WebhookHandler{
		cfg:        cfg,
		logger:     logger,
		queue:      queue,
		deliveries: deliveries,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	// Verify signature
	if !h.verifySignature(r.Header.Get("X-Hub-Signature-256"), payload) {
		h.logger.Error("invalid github signature")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// GitHub redelivers events; the delivery ID makes enqueueing idempotent.
	delivery := r.Header.Get("X-GitHub-Delivery")
	if delivery != "" && h.deliveries != nil {
		if h.deliveries.Seen(r.Context(), delivery) {
			h.logger.Info("delivery already processed", "delivery", delivery)
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = h.deliveries.Mark(r.Context(), delivery)
	}

	event := r.Header.Get("X-GitHub-Event")

	h.logger.Info("github event received",
		"event", event,
	)

	switch event {
	case "pull_request":
		h.handlePullRequest(r.Context(), payload)
	default:
		h.logger.Info("event ignored", "event", event)
	}

	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) handlePullRequest(ctx context.Context, payload []byte) {

	var event PullRequestEvent

	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("failed to parse pr event", "error", err)
		return
	}

	if event.PullRequest.Draft {
		h.logger.Info("draft pr ignored",
			"repo", event.Repository.FullName,
			"pr", event.PullRequest.Number,
		)
		return
	}

	job := ReviewJob{
		Repo: event.Repository.FullName,
		PR:   event.PullRequest.Number,
	}

	switch event.Action {
	case "opened", "reopened":
		job.Kind = JobFull
	case "synchronize":
		job.Kind = JobIncremental
		job.Base = event.Before
		job.Head = event.After
	default:
		h.logger.Info("pr action ignored", "action", event.Action)
		return
	}

	if err := h.queue.Enqueue(ctx, job); err != nil {
		h.logger.Error("failed to enqueue review job",
			"error", err,
			"repo", job.Repo,
			"pr", job.PR,
		)
		return
	}

	h.logger.Info("review job enqueued",
		"repo", job.Repo,
		"pr", job.PR,
		"kind", job.Kind,
	)
}

func (h *WebhookHandler) verifySignature(signature string, body []byte) bool {
	if h.cfg.GithubSecret == "" {
		h.logger.Error("github secret not configured")
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.cfg.GithubSecret))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
