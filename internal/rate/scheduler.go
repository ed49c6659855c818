package rate

import (
	"context"
	"errors"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// CycleRunner is implemented by the Collector.
type CycleRunner interface {
	RunCycle(ctx context.Context) (domain.CycleResult, error)
}

// Scheduler triggers collection cycles: once immediately on start and then
// on the configured cron spec. The collector itself has no notion of time.
type Scheduler struct {
	collector CycleRunner
	cronSpec  string
	// -----
	sched gocron.Scheduler
}

func NewScheduler(collector CycleRunner, cronSpec string) *Scheduler {
	if cronSpec == "" {
		cronSpec = "0 6 * * *"
	}
	return &Scheduler{collector: collector, cronSpec: cronSpec}
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job := func(jobCtx context.Context) {
		result, runErr := s.collector.RunCycle(jobCtx)
		if runErr != nil {
			if errors.Is(runErr, domain.ErrCycleInProgress) {
				return // already logged by the collector
			}
			logrus.Errorf("Scheduled collection cycle failed: %v", runErr)
			return
		}
		logrus.Infof("Scheduled cycle %s finished: outcome=%s committed=%d rejected=%d",
			result.ExecID, result.Outcome, result.Committed, result.Rejected)
	}

	_, err = scheduler.NewJob(
		gocron.CronJob(s.cronSpec, false),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return err
	}

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}
