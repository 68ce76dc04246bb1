package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fintech/wcm/internal/domain/shared"
	"go.uber.org/zap"
)

// Schedule describes when a registered job fires. Two forms are accepted:
//
//	"@every <duration>"  fixed interval, e.g. "@every 6h"
//	"HH:MM"              once per day at the given local time
type Schedule struct {
	Interval time.Duration // non-zero for interval schedules
	Hour     int           // daily schedules
	Minute   int
	daily    bool
}

// ParseSchedule parses a schedule expression.
// Returns ErrInvalidInput for anything it cannot interpret.
func ParseSchedule(expr string) (Schedule, error) {
	expr = strings.TrimSpace(expr)
	if rest, ok := strings.CutPrefix(expr, "@every "); ok {
		d, err := time.ParseDuration(strings.TrimSpace(rest))
		if err != nil || d <= 0 {
			return Schedule{}, shared.NewDomainError("INVALID_INPUT", "Invalid schedule interval: "+expr)
		}
		return Schedule{Interval: d}, nil
	}
	if hh, mm, ok := strings.Cut(expr, ":"); ok {
		hour, err1 := strconv.Atoi(hh)
		minute, err2 := strconv.Atoi(mm)
		if err1 == nil && err2 == nil && hour >= 0 && hour < 24 && minute >= 0 && minute < 60 {
			return Schedule{Hour: hour, Minute: minute, daily: true}, nil
		}
	}
	return Schedule{}, shared.NewDomainError("INVALID_INPUT", "Invalid schedule expression: "+expr)
}

// next returns the time of the next firing after now
func (s Schedule) next(now time.Time) time.Time {
	if !s.daily {
		return now.Add(s.Interval)
	}
	fire := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, now.Location())
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}

// Task is the work a scheduled job performs on each firing
type Task func(ctx context.Context)

type job struct {
	id       string
	schedule Schedule
	cancel   context.CancelFunc
}

// Registry runs scheduled jobs in-process. Each job gets its own goroutine
// that sleeps until the next firing; cancellation is best-effort, meaning a
// firing already in progress runs to completion but no future firing occurs.
type Registry struct {
	mu      sync.Mutex
	jobs    map[string]*job
	logger  *zap.Logger
	maxJobs int
	timeout time.Duration

	baseCtx    context.Context
	baseCancel context.CancelFunc
	wg         sync.WaitGroup
}

// NewRegistry creates a job registry. maxJobs bounds concurrent
// registrations; timeout bounds a single firing.
func NewRegistry(logger *zap.Logger, maxJobs int, timeout time.Duration) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		jobs:       make(map[string]*job),
		logger:     logger,
		maxJobs:    maxJobs,
		timeout:    timeout,
		baseCtx:    ctx,
		baseCancel: cancel,
	}
}

// Register schedules a task and returns its job ID
func (r *Registry) Register(id string, schedule Schedule, task Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[id]; exists {
		return shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Job already registered: %s", id))
	}
	if len(r.jobs) >= r.maxJobs {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Job registry is full (%d jobs)", r.maxJobs))
	}

	jobCtx, cancel := context.WithCancel(r.baseCtx)
	j := &job{id: id, schedule: schedule, cancel: cancel}
	r.jobs[id] = j

	r.wg.Add(1)
	go r.run(jobCtx, j, task)

	r.logger.Info("scheduled job registered", zap.String("job_id", id))
	return nil
}

func (r *Registry) run(ctx context.Context, j *job, task Task) {
	defer r.wg.Done()
	for {
		wait := time.Until(j.schedule.next(time.Now()))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		fireCtx, cancel := context.WithTimeout(ctx, r.timeout)
		start := time.Now()
		task(fireCtx)
		cancel()
		r.logger.Info("scheduled job fired",
			zap.String("job_id", j.id),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

// Cancel stops future firings of a job.
// Returns ErrNotFound when no job has the given ID.
func (r *Registry) Cancel(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]
	if !ok {
		return shared.ErrNotFound
	}
	j.cancel()
	delete(r.jobs, id)
	r.logger.Info("scheduled job cancelled", zap.String("job_id", id))
	return nil
}

// Contains reports whether a job with the given ID is registered
func (r *Registry) Contains(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.jobs[id]
	return ok
}

// Len returns the number of registered jobs
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// Shutdown cancels all jobs and waits for running firings to finish
func (r *Registry) Shutdown() {
	r.mu.Lock()
	for id, j := range r.jobs {
		j.cancel()
		delete(r.jobs, id)
	}
	r.mu.Unlock()
	r.baseCancel()
	r.wg.Wait()
}
