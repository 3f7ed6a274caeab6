package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	apperrors "agency/internal/errors"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// ErrJobPanicked wraps a panic recovered at the job boundary.
var ErrJobPanicked = errors.New("reconciliation job panicked")

// JobInfo describes a registered job.
type JobInfo struct {
	Name     string    `json:"name"`
	Schedule string    `json:"schedule"`
	Next     time.Time `json:"next_run"`
	Prev     time.Time `json:"prev_run,omitempty"`
}

type registration struct {
	job      Job
	schedule string
	entry    cron.EntryID
}

// Scheduler fires registered jobs on their cron schedules and exposes the
// same jobs for the startup run and manual triggers.
type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*registration
}

func NewScheduler(opts ...Option) *Scheduler {
	o := buildOptions(opts)
	log := o.log.With("component", "scheduler")
	adapter := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(o.location),
			cron.WithLogger(adapter),
			cron.WithChain(cron.Recover(adapter)),
		),
		log:  log,
		jobs: make(map[string]*registration),
	}
}

// Register schedules job with a standard five field cron expression.
func (s *Scheduler) Register(spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.jobs[job.Name()]; dup {
		return fmt.Errorf("job %q already registered", job.Name())
	}
	id, err := s.cron.AddFunc(spec, func() {
		_, _ = s.run(context.Background(), job)
	})
	if err != nil {
		return fmt.Errorf("schedule job %q: %w", job.Name(), err)
	}
	s.jobs[job.Name()] = &registration{job: job, schedule: spec, entry: id}
	s.log.Info("reconciliation job registered", "job", job.Name(), "schedule", spec)
	return nil
}

// RunNow runs the named job on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context, name string) (Summary, error) {
	s.mu.RLock()
	reg, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return Summary{Job: name}, fmt.Errorf("%w: %s", apperrors.ErrUnknownJob, name)
	}
	return s.run(ctx, reg.job)
}

// RunAll runs every registered job concurrently and waits for all of them.
// Summaries come back in job name order; the first error is returned.
func (s *Scheduler) RunAll(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	jobs := make([]Job, 0, len(s.jobs))
	for _, reg := range s.jobs {
		jobs = append(jobs, reg.job)
	}
	s.mu.RUnlock()
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].Name() < jobs[k].Name() })

	summaries := make([]Summary, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			sum, err := s.run(ctx, job)
			summaries[i] = sum
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name(), err)
			}
			return nil
		})
	}
	return summaries, g.Wait()
}

// Jobs lists the registered jobs with their next firing time.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]JobInfo, 0, len(s.jobs))
	for name, reg := range s.jobs {
		entry := s.cron.Entry(reg.entry)
		infos = append(infos, JobInfo{Name: name, Schedule: reg.schedule, Next: entry.Next, Prev: entry.Prev})
	}
	sort.Slice(infos, func(i, k int) bool { return infos[i].Name < infos[k].Name })
	return infos
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop halts new firings and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.log.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running jobs: %w", ctx.Err())
	}
}

func (s *Scheduler) run(ctx context.Context, job Job) (sum Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
			s.log.Error("reconciliation job panicked", "job", job.Name(), "panic", r, "stack", string(debug.Stack()))
		}
	}()

	sum, err = job.Run(ctx)
	if errors.Is(err, apperrors.ErrSweepInProgress) {
		s.log.Info("reconciliation skipped, previous sweep still running", "job", job.Name())
	}
	return sum, err
}

// cronLogger routes cron's own logging into slog.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error(msg, append(keysAndValues, "error", err)...)
}
