package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/rota-api/internal/config"
	"github.com/phrazzld/rota-api/internal/domain"
	"github.com/phrazzld/rota-api/internal/service/generation"
)

// countingService records RunCycle invocations.
type countingService struct {
	cycles atomic.Int64
}

func (c *countingService) RunCycle(_ context.Context) (*generation.CycleResult, error) {
	c.cycles.Add(1)
	return &generation.CycleResult{}, nil
}

func (c *countingService) ExpandMonth(_ context.Context, _ domain.Category, _ domain.YearMonth) (*generation.ExpandResult, error) {
	return &generation.ExpandResult{}, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_NilDependenciesPanic(t *testing.T) {
	t.Parallel()

	cfg := config.GenerationConfig{IntervalMinutes: 60}
	assert.Panics(t, func() { New(cfg, nil, testLogger()) })
	assert.Panics(t, func() { New(cfg, &countingService{}, nil) })
}

func TestStart_DisabledRunsNothing(t *testing.T) {
	t.Parallel()

	svc := &countingService{}
	s := New(config.GenerationConfig{IntervalMinutes: 60, Disabled: true}, svc, testLogger())

	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, svc.cycles.Load())
}

func TestStart_RejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	s := New(config.GenerationConfig{IntervalMinutes: 0}, &countingService{}, testLogger())
	assert.Error(t, s.Start())
}

func TestScheduler_RunsCycles(t *testing.T) {
	t.Parallel()

	svc := &countingService{}
	s := New(config.GenerationConfig{IntervalMinutes: 60}, svc, testLogger())

	// Shrink the interval below the config's minute granularity so the test
	// does not have to wait.
	s.interval = 10 * time.Millisecond

	require.NoError(t, s.Start())
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for svc.cycles.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("no generation cycle ran before the deadline")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
