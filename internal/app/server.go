package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ai-pr-reviewer/internal/config"
	"ai-pr-reviewer/internal/observability"
	"ai-pr-reviewer/internal/worker"
)

type Server struct {
	cfg       *config.Config
	logger    *observability.Logger
	http      *http.Server
	processor *worker.Processor
}

func NewServer(cfg *config.Config, logger *observability.Logger) *Server {

	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	s.http = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	return s
}

func (s *Server) Start(ctx context.Context) error {

	s.processor.Start(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server",
		"port", s.cfg.Port,
		"env", s.cfg.Env,
	)

	if err := s.http.ListenAndServe(); err != nil &&
		err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
