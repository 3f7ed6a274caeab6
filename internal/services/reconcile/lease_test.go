package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "agency/internal/errors"
	"agency/internal/repositories/memory"
	"agency/internal/services/status"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Two CardJob values stand in for the server and agencyctl: separate
// in-process locks, one shared lease backend.
func TestCardJob_LeaseBlocksOtherProcess(t *testing.T) {
	ctx := context.Background()
	locks := memory.NewCache()
	reg := prometheus.NewRegistry()

	started := make(chan struct{})
	release := make(chan struct{})
	serverCards := memory.NewCardStore(seedCards()...)
	first := true
	serverCards.OnWrite = func(string, uint) {
		if first {
			first = false
			close(started)
			<-release
		}
	}
	server := newCardJob(t, serverCards, memory.NewStatusStore(), memory.NewCache(), WithLocker(locks, time.Hour))
	cli := newCardJob(t, serverCards, memory.NewStatusStore(), memory.NewCache(),
		WithLocker(locks, time.Hour), WithMetrics(NewPrometheusMetrics(reg)))

	done := make(chan error, 1)
	go func() {
		_, err := server.Run(ctx)
		done <- err
	}()

	<-started
	assert.True(t, locks.Has(leaseKey(CardJobName)))
	_, err := cli.Run(ctx)
	assert.ErrorIs(t, err, apperrors.ErrSweepInProgress)
	assert.Equal(t, 1.0, metricValue(t, reg, "agency_reconcile_sweeps_total", map[string]string{"job": CardJobName, "result": "skipped"}))

	close(release)
	require.NoError(t, <-done)
	assert.False(t, locks.Has(leaseKey(CardJobName)), "lease released after the sweep")

	sum, err := cli.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Processed)
}

func TestPolicyJob_LeaseHeldElsewhere(t *testing.T) {
	ctx := context.Background()
	locks := memory.NewCache()
	ok, err := locks.Acquire(ctx, leaseKey(PolicyJobName), "other-process", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	policies := memory.NewPolicyStore(memory.NewPaymentStore(), mixedPolicies()...)
	job := NewPolicyJob(policies, status.NewResolver(memory.NewStatusStore()), &fakeCleaner{}, memory.NewCache(),
		WithClock(fixedClock("2025-05-01T09:00:00Z")), WithLocker(locks, time.Hour))

	_, err = job.Run(ctx)
	assert.ErrorIs(t, err, apperrors.ErrSweepInProgress)
	assert.Zero(t, policies.StatusUpdates)

	require.NoError(t, locks.Release(ctx, leaseKey(PolicyJobName), "other-process"))
	sum, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)
}

func TestCardJob_LeaseBackendDownRunsAnyway(t *testing.T) {
	locks := memory.NewCache()
	locks.Err = errors.New("connection refused")
	cards := memory.NewCardStore(seedCards()...)

	sum, err := newCardJob(t, cards, memory.NewStatusStore(), memory.NewCache(), WithLocker(locks, time.Hour)).
		Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Processed)
}
