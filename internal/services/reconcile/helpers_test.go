package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"agency/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// Canonical status IDs of memory.NewStatusStore.
const (
	cardActive        uint = 1
	cardAboutToExpire uint = 2
	cardExpired       uint = 3

	policyActive            uint = 1
	policyCancelled         uint = 2
	policyCompleted         uint = 3
	policyCloseToCompletion uint = 4
)

func fixedClock(s string) Clock {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeCleaner struct {
	mu    sync.Mutex
	calls []models.Policy
	err   error
}

func (c *fakeCleaner) ValidateAndCleanupPayments(_ context.Context, policy *models.Policy) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, *policy)
	if c.err != nil {
		return 0, c.err
	}
	return 2, nil
}

func (c *fakeCleaner) called() []models.Policy {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Policy(nil), c.calls...)
}

// recorder collects store writes and cache deletions in order.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) write(op string, _ uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "write:"+op)
}

func (r *recorder) invalidate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "invalidate:"+target)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// metricValue reads a counter or gauge sample from reg by its labels.
func metricValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metrics
				}
			}
			if c := m.GetCounter(); c != nil {
				return c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				return g.GetValue()
			}
		}
	}
	return 0
}
