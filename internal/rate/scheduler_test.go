package rate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

type fakeRunner struct {
	calls atomic.Int64
}

func (f *fakeRunner) RunCycle(context.Context) (domain.CycleResult, error) {
	f.calls.Add(1)
	return domain.CycleResult{Outcome: domain.OutcomeEmpty}, nil
}

func TestNewScheduler_DefaultsCronSpecWhenEmpty(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, "")
	require.Equal(t, "0 6 * * *", s.cronSpec)
	require.Nil(t, s.sched)
}

func TestScheduler_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, "0 6 * * *")
	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)
}

func TestScheduler_Start_RunsStartupCycle(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(runner, "0 6 * * *")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	t.Cleanup(func() { _ = s.Shutdown() })

	// the immediate startup run fires without waiting for the cron slot
	require.Eventually(t, func() bool {
		return runner.calls.Load() >= 1
	}, 3*time.Second, 10*time.Millisecond)
}

func TestScheduler_ContextCancelShutsDown(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, "0 6 * * *")
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	cancel()

	require.Eventually(t, func() bool { return s.sched == nil }, 2*time.Second, 10*time.Millisecond,
		"expected scheduler to be shutdown after ctx cancel")
}

func TestScheduler_Shutdown_AfterStart_Idempotent(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, "0 6 * * *")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.NotNil(t, s.sched)

	require.NoError(t, s.Shutdown())
	require.Nil(t, s.sched)

	require.NoError(t, s.Shutdown())
}

func TestScheduler_InvalidCronSpecFailsStart(t *testing.T) {
	s := NewScheduler(&fakeRunner{}, "not a cron spec")
	err := s.Start(context.Background())
	require.Error(t, err)
}
