package cron

import (
	"context"
	"fmt"
)

// Sweeper drops idle sessions and reports how many were removed.
type Sweeper interface {
	SweepIdle(ctx context.Context) int
}

type sessionSweepJob struct {
	name    string
	sweeper Sweeper
}

// NewSessionSweepJob wraps a session owner as a scheduled job.
func NewSessionSweepJob(name string, sweeper Sweeper) (Job, error) {
	if name == "" {
		return nil, fmt.Errorf("job name required")
	}
	if sweeper == nil {
		return nil, fmt.Errorf("sweeper required")
	}
	return &sessionSweepJob{name: name, sweeper: sweeper}, nil
}

func (j *sessionSweepJob) Name() string { return j.name }

func (j *sessionSweepJob) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.sweeper.SweepIdle(ctx)
	return nil
}
