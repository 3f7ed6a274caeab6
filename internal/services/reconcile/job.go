// Package reconcile keeps the persisted card and policy statuses in step
// with wall-clock time. Each job sweeps its whole collection, writes only
// the records whose derived status changed and then invalidates the cached
// projections of that collection.
package reconcile

import (
	"context"
	"log/slog"
	"time"

	"agency/internal/logger"
	"agency/internal/models"

	"github.com/google/uuid"
)

const (
	CardJobName   = "cards"
	PolicyJobName = "policies"
)

// Job is a single reconciliation sweep. Scheduled firings, the startup run
// and manual triggers all go through Run.
type Job interface {
	Name() string
	Run(ctx context.Context) (Summary, error)
}

// PaymentCleaner removes the payments a completed policy no longer needs.
type PaymentCleaner interface {
	ValidateAndCleanupPayments(ctx context.Context, policy *models.Policy) (int, error)
}

// Clock returns the current instant.
type Clock func() time.Time

// Summary reports what a sweep did.
type Summary struct {
	RunID            string        `json:"run_id"`
	Job              string        `json:"job"`
	Processed        int           `json:"processed"`
	Updated          int           `json:"updated"`
	CleanedUp        int           `json:"cleaned_up"`
	CancelledSkipped int           `json:"cancelled_skipped"`
	Failed           int           `json:"failed"`
	StartedAt        time.Time     `json:"started_at"`
	Duration         time.Duration `json:"duration"`
}

// Unchanged is the number of processed records that needed no write.
func (s Summary) Unchanged() int {
	n := s.Processed - s.Updated - s.Failed - s.CancelledSkipped
	if n < 0 {
		return 0
	}
	return n
}

func (s Summary) logAttrs() []any {
	return []any{
		"processed", s.Processed,
		"updated", s.Updated,
		"cleaned_up", s.CleanedUp,
		"cancelled_skipped", s.CancelledSkipped,
		"failed", s.Failed,
		"duration", s.Duration,
	}
}

// DefaultLeaseTTL bounds how long a crashed process can keep a job locked.
const DefaultLeaseTTL = 2 * time.Hour

// Locker hands out leases shared by every process running the jobs, so
// the server's scheduler and agencyctl never sweep the same job at once.
type Locker interface {
	// Acquire sets key to token for ttl unless the key is already held.
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	// Release drops key only while it still holds token.
	Release(ctx context.Context, key, token string) error
}

type options struct {
	log      *slog.Logger
	clock    Clock
	location *time.Location
	metrics  Metrics
	locker   Locker
	leaseTTL time.Duration
}

// Option configures jobs and the scheduler.
type Option func(*options)

func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLocation sets the zone calendar dates and schedules are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithLocker makes every run hold the job's lease. A ttl of zero uses
// DefaultLeaseTTL.
func WithLocker(l Locker, ttl time.Duration) Option {
	return func(o *options) {
		o.locker = l
		if ttl > 0 {
			o.leaseTTL = ttl
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		log:      logger.Discard(),
		clock:    time.Now,
		location: time.UTC,
		metrics:  NoopMetrics{},
		leaseTTL: DefaultLeaseTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) now() time.Time {
	return o.clock().In(o.location)
}

func leaseKey(job string) string {
	return "lock:reconcile:" + job
}

// lease takes the cross-process lease of job. held is false only when
// another process owns it. If the lock backend fails the run goes ahead
// under the in-process lock alone.
func (o options) lease(ctx context.Context, job string) (release func(), held bool) {
	if o.locker == nil {
		return func() {}, true
	}
	key, token := leaseKey(job), uuid.NewString()
	ok, err := o.locker.Acquire(ctx, key, token, o.leaseTTL)
	if err != nil {
		o.log.Warn("reconciliation lease unavailable, running unguarded", "job", job, "error", err)
		return func() {}, true
	}
	if !ok {
		return nil, false
	}
	return func() {
		if err := o.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			o.log.Warn("failed to release reconciliation lease", "job", job, "error", err)
		}
	}, true
}

func newSummary(job string, startedAt time.Time) Summary {
	return Summary{
		RunID:     uuid.NewString(),
		Job:       job,
		StartedAt: startedAt,
	}
}

// finish stamps the duration, records metrics and writes the summary line.
func (o options) finish(log *slog.Logger, sum *Summary, err error) {
	sum.Duration = o.clock().Sub(sum.StartedAt)
	o.metrics.RecordSweep(*sum, err)
	if err != nil {
		log.Error("reconciliation sweep finished with error", append(sum.logAttrs(), "error", err)...)
		return
	}
	log.Info("reconciliation sweep finished", sum.logAttrs()...)
}
