package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"agency/internal/models"
	"agency/internal/repositories/memory"
	"agency/internal/services/status"
	cachekeys "agency/internal/utils/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicyJob(t *testing.T, policies *memory.PolicyStore, statuses *memory.StatusStore, cleaner PaymentCleaner, c *memory.Cache) *PolicyJob {
	t.Helper()
	return NewPolicyJob(policies, status.NewResolver(statuses), cleaner, c, WithClock(fixedClock("2025-05-01T09:00:00Z")))
}

func mixedPolicies() []models.Policy {
	return []models.Policy{
		{ID: 1, PolicyNumber: "P-1", EndDate: day("2024-01-01"), PolicyStatusID: policyCancelled},
		{ID: 2, PolicyNumber: "P-2", EndDate: day("2025-03-01"), PolicyStatusID: policyCompleted},
		{ID: 3, PolicyNumber: "P-3", EndDate: day("2025-04-30"), PolicyStatusID: policyActive},
	}
}

func TestPolicyJob_Run(t *testing.T) {
	ctx := context.Background()
	policies := memory.NewPolicyStore(nil, mixedPolicies()...)
	cleaner := &fakeCleaner{}

	sum, err := newPolicyJob(t, policies, memory.NewStatusStore(), cleaner, memory.NewCache()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, PolicyJobName, sum.Job)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 1, sum.Updated)
	assert.Equal(t, 1, sum.CleanedUp)
	assert.Equal(t, 1, sum.CancelledSkipped)
	assert.Equal(t, 0, sum.Failed)

	calls := cleaner.called()
	require.Len(t, calls, 1)
	assert.Equal(t, uint(3), calls[0].ID)
	assert.Equal(t, policyCompleted, calls[0].PolicyStatusID, "cleanup sees the reloaded, completed policy")

	p1, _ := policies.GetByID(ctx, 1)
	assert.Equal(t, policyCancelled, p1.PolicyStatusID)
}

func TestPolicyJob_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		end     string
		current uint
		want    uint
		cleanup bool
	}{
		{name: "active nearing end", end: "2025-05-20", current: policyActive, want: policyCloseToCompletion},
		{name: "close to completion reaches end", end: "2025-05-01", current: policyCloseToCompletion, want: policyCompleted, cleanup: true},
		{name: "extended completed policy", end: "2026-05-01", current: policyCompleted, want: policyActive},
		{name: "unchanged active", end: "2026-05-01", current: policyActive, want: policyActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			policies := memory.NewPolicyStore(nil, models.Policy{ID: 1, EndDate: day(tt.end), PolicyStatusID: tt.current})
			cleaner := &fakeCleaner{}

			_, err := newPolicyJob(t, policies, memory.NewStatusStore(), cleaner, memory.NewCache()).Run(ctx)
			require.NoError(t, err)

			p, _ := policies.GetByID(ctx, 1)
			assert.Equal(t, tt.want, p.PolicyStatusID)
			if tt.cleanup {
				assert.Len(t, cleaner.called(), 1)
			} else {
				assert.Empty(t, cleaner.called())
			}
		})
	}
}

func TestPolicyJob_CascadeExactlyOnce(t *testing.T) {
	ctx := context.Background()
	policies := memory.NewPolicyStore(nil, mixedPolicies()...)
	cleaner := &fakeCleaner{}
	job := newPolicyJob(t, policies, memory.NewStatusStore(), cleaner, memory.NewCache())

	_, err := job.Run(ctx)
	require.NoError(t, err)

	sum, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Updated)
	assert.Equal(t, 0, sum.CleanedUp)
	assert.Len(t, cleaner.called(), 1)
}

func TestPolicyJob_CascadeFailureKeepsStatus(t *testing.T) {
	ctx := context.Background()
	policies := memory.NewPolicyStore(nil, mixedPolicies()...)
	cleaner := &fakeCleaner{err: errors.New("payments table locked")}

	sum, err := newPolicyJob(t, policies, memory.NewStatusStore(), cleaner, memory.NewCache()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Updated)
	assert.Equal(t, 0, sum.CleanedUp)
	assert.Equal(t, 0, sum.Failed)

	p3, _ := policies.GetByID(ctx, 3)
	assert.Equal(t, policyCompleted, p3.PolicyStatusID)
}

func TestPolicyJob_UpdateFailureSkipsCascade(t *testing.T) {
	ctx := context.Background()
	policies := memory.NewPolicyStore(nil, mixedPolicies()...)
	policies.UpdateErrs[3] = errors.New("serialization failure")
	cleaner := &fakeCleaner{}

	sum, err := newPolicyJob(t, policies, memory.NewStatusStore(), cleaner, memory.NewCache()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 0, sum.Updated)
	assert.Equal(t, 1, sum.Failed)
	assert.Empty(t, cleaner.called())
}

func TestPolicyJob_InvalidatesPolicies(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCache()
	require.NoError(t, c.Set(ctx, cachekeys.AllKey(cachekeys.CollectionPolicies), "[]", time.Hour))
	require.NoError(t, c.Set(ctx, cachekeys.AllKey(cachekeys.CollectionCards), "[]", time.Hour))

	rec := &recorder{}
	policies := memory.NewPolicyStore(nil, mixedPolicies()...)
	policies.OnWrite = rec.write
	c.OnDelete = rec.invalidate

	_, err := newPolicyJob(t, policies, memory.NewStatusStore(), &fakeCleaner{}, c).Run(ctx)
	require.NoError(t, err)

	assert.False(t, c.Has(cachekeys.AllKey(cachekeys.CollectionPolicies)))
	assert.True(t, c.Has(cachekeys.AllKey(cachekeys.CollectionCards)))
	assert.Equal(t, []string{"write:update_status", "invalidate:global:policies:"}, rec.list())
}

func TestPolicyJob_MissingStatusRow(t *testing.T) {
	statuses := memory.NewStatusStore()
	statuses.RemovePolicyStatus(models.PolicyStatusCloseToCompletion)
	policies := memory.NewPolicyStore(nil, mixedPolicies()...)
	cleaner := &fakeCleaner{}

	sum, err := newPolicyJob(t, policies, statuses, cleaner, memory.NewCache()).Run(context.Background())
	require.ErrorIs(t, err, status.ErrStatusNotConfigured)
	assert.Equal(t, 3, sum.Failed)
	assert.Equal(t, 0, policies.StatusUpdates)
	assert.Empty(t, cleaner.called())
}

func TestPolicyJob_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	policies := memory.NewPolicyStore(nil, mixedPolicies()...)
	sum, err := newPolicyJob(t, policies, memory.NewStatusStore(), &fakeCleaner{}, memory.NewCache()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, sum.Processed)
	assert.Equal(t, 0, policies.StatusUpdates)
}
