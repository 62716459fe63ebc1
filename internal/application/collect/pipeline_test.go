package collect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quamilek/ralph-pricing/internal/domain/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStage struct {
	name   string
	result Result
	err    error
	seen   *[]string
	date   time.Time
}

func (s *stubStage) Name() string { return s.name }

func (s *stubStage) Run(_ context.Context, rc *RunContext) (Result, error) {
	*s.seen = append(*s.seen, s.name)
	s.date = rc.Date
	return s.result, s.err
}

func TestPipeline_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("runs stages in order with the day truncated", func(t *testing.T) {
		var seen []string
		first := &stubStage{name: "first", result: Result{OK: true, Message: "done"}, seen: &seen}
		second := &stubStage{name: "second", result: Result{OK: true, Message: "done too"}, seen: &seen}
		p := NewPipeline(zap.NewNop(), first, second)

		reports, err := p.Run(ctx, &RunContext{Date: time.Date(2014, 12, 10, 15, 30, 0, 0, time.UTC)})

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, seen)
		assert.Equal(t, []string{"first", "second"}, p.Stages())
		assert.Len(t, reports, 2)
		assert.Equal(t, time.Date(2014, 12, 10, 0, 0, 0, 0, time.UTC), first.date)
	})

	t.Run("continues after an ordinary failure", func(t *testing.T) {
		var seen []string
		p := NewPipeline(zap.NewNop(),
			&stubStage{name: "broken", err: errors.New("boom"), seen: &seen},
			&stubStage{name: "healthy", result: Result{OK: true, Message: "ok"}, seen: &seen},
		)

		reports, err := p.Run(ctx, &RunContext{Date: time.Now()})

		require.NoError(t, err)
		assert.Equal(t, []string{"broken", "healthy"}, seen)
		require.Len(t, reports, 2)
		assert.False(t, reports[0].Result.OK)
		assert.Equal(t, "boom", reports[0].Result.Message)
		assert.True(t, reports[1].Result.OK)
	})

	t.Run("stops when a stage is not configured", func(t *testing.T) {
		var seen []string
		notConfigured := pricing.NewUnknownServiceEnvironmentNotConfiguredError("tenant")
		p := NewPipeline(zap.NewNop(),
			&stubStage{name: "tenant", err: notConfigured, seen: &seen},
			&stubStage{name: "after", result: Result{OK: true}, seen: &seen},
		)

		reports, err := p.Run(ctx, &RunContext{Date: time.Now()})

		assert.Same(t, notConfigured, err)
		assert.Equal(t, []string{"tenant"}, seen)
		assert.Len(t, reports, 1)
	})

	t.Run("requires a date", func(t *testing.T) {
		p := NewPipeline(zap.NewNop())
		_, err := p.Run(ctx, &RunContext{})
		require.Error(t, err)

		_, err = p.Run(ctx, nil)
		require.Error(t, err)
	})
}

func TestSummary(t *testing.T) {
	lines := Summary([]StageReport{
		{Stage: "tenant", Result: Result{OK: true, Message: "5 new tenants, 0 updated, 5 total"}},
		{Stage: "extra_cost", Result: Result{OK: false, Message: "boom"}},
	})
	assert.Equal(t, []string{
		"tenant [ok]: 5 new tenants, 0 updated, 5 total",
		"extra_cost [failed]: boom",
	}, lines)
}
