// Package cron runs the in-process housekeeping jobs, such as dropping idle sessions, on a
// fixed cadence.
package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/pedidos-storefront/pkg/logger"
	"github.com/angelmondragon/pedidos-storefront/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

// Job is one scheduled task.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// ServiceParams configure the cron service.
type ServiceParams struct {
	Logger   *logger.Logger
	Jobs     []Job
	Metrics  *metrics.JobMetrics
	Interval time.Duration
}

// Service executes its jobs on a fixed cadence. Every instance runs its own jobs: they only
// touch process-local state, so no cross-instance lock is taken.
type Service struct {
	logg     *logger.Logger
	jobs     []Job
	metrics  *metrics.JobMetrics
	interval time.Duration
}

// NewService builds a cron service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	jobs := make([]Job, 0, len(params.Jobs))
	for _, job := range params.Jobs {
		if job != nil {
			jobs = append(jobs, job)
		}
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		jobs:     jobs,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Jobs returns the scheduled jobs in run order.
func (s *Service) Jobs() []Job {
	jobs := make([]Job, len(s.jobs))
	copy(jobs, s.jobs)
	return jobs
}

// Run ticks until the context is canceled. The first cycle runs after one interval.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron service context canceled")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Service) runCycle(ctx context.Context) {
	for _, job := range s.jobs {
		s.runJob(ctx, job)
	}
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	jobCtx = s.logg.WithField(jobCtx, "event", "cron.job")
	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveDuration(job.Name(), duration)
	jobCtx = s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		s.metrics.IncFailure(job.Name())
		return
	}
	s.logg.Debug(jobCtx, "job completed")
	s.metrics.IncSuccess(job.Name())
}
