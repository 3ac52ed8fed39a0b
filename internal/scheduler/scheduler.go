// Package scheduler runs periodic generation cycles in the background.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/phrazzld/rota-api/internal/config"
	"github.com/phrazzld/rota-api/internal/service/generation"
)

// Scheduler wraps a cron runner that triggers generation cycles on a fixed
// interval. It exists so recurring tasks surface without anyone calling the
// process endpoint by hand.
type Scheduler struct {
	cron     *cron.Cron
	service  generation.Service
	interval time.Duration
	disabled bool
	logger   *slog.Logger
}

// New creates a scheduler from the generation config.
// Panics if svc or log is nil.
func New(cfg config.GenerationConfig, svc generation.Service, log *slog.Logger) *Scheduler {
	if svc == nil {
		panic("generation service cannot be nil") // ALLOW-PANIC
	}
	if log == nil {
		panic("logger cannot be nil") // ALLOW-PANIC
	}

	return &Scheduler{
		cron:     cron.New(),
		service:  svc,
		interval: time.Duration(cfg.IntervalMinutes) * time.Minute,
		disabled: cfg.Disabled,
		logger:   log.With(slog.String("component", "scheduler")),
	}
}

// Start registers the cycle job and starts the cron runner. It returns
// immediately; cycles run on the cron's own goroutine. A disabled scheduler
// starts nothing and returns nil.
func (s *Scheduler) Start() error {
	if s.disabled {
		s.logger.Info("background generation disabled")
		return nil
	}
	if s.interval <= 0 {
		return fmt.Errorf("generation interval must be positive, got %s", s.interval)
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, s.runCycle); err != nil {
		return fmt.Errorf("failed to register generation job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("background generation started",
		slog.Duration("interval", s.interval))
	return nil
}

// Stop halts the cron runner and waits for any in-flight cycle to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("background generation stopped")
}

func (s *Scheduler) runCycle() {
	ctx := context.Background()
	if _, err := s.service.RunCycle(ctx); err != nil {
		// Log and carry on; the next tick retries from scratch.
		s.logger.Error("generation cycle failed",
			slog.String("error", err.Error()))
	}
}
