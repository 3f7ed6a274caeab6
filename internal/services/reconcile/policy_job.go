package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	apperrors "agency/internal/errors"
	"agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/repositories/cache"
	"agency/internal/services/status"
	cachekeys "agency/internal/utils/cache"
)

// PolicyJob recomputes policy statuses from their end dates. Cancelled
// policies are never touched. A policy entering COMPLETED has its payment
// schedule cleaned up right after the status write.
type PolicyJob struct {
	policies repositories.PolicyRepository
	statuses *status.Resolver
	cleaner  PaymentCleaner
	cache    repositories.CacheRepository
	opts     options
	log      *slog.Logger

	running sync.Mutex
}

func NewPolicyJob(
	policies repositories.PolicyRepository,
	statuses *status.Resolver,
	cleaner PaymentCleaner,
	cacheRepo repositories.CacheRepository,
	opts ...Option,
) *PolicyJob {
	if policies == nil {
		panic("policy repository is required")
	}
	if statuses == nil {
		panic("status resolver is required")
	}
	if cleaner == nil {
		panic("payment cleaner is required")
	}
	if cacheRepo == nil {
		panic("cache is required")
	}
	o := buildOptions(opts)
	return &PolicyJob{
		policies: policies,
		statuses: statuses,
		cleaner:  cleaner,
		cache:    cacheRepo,
		opts:     o,
		log:      o.log.With("job", PolicyJobName),
	}
}

func (j *PolicyJob) Name() string { return PolicyJobName }

func (j *PolicyJob) Run(ctx context.Context) (sum Summary, err error) {
	if !j.running.TryLock() {
		j.opts.metrics.RecordSweep(Summary{Job: PolicyJobName}, apperrors.ErrSweepInProgress)
		return Summary{Job: PolicyJobName}, apperrors.ErrSweepInProgress
	}
	defer j.running.Unlock()

	release, held := j.opts.lease(ctx, PolicyJobName)
	if !held {
		j.opts.metrics.RecordSweep(Summary{Job: PolicyJobName}, apperrors.ErrSweepInProgress)
		return Summary{Job: PolicyJobName}, apperrors.ErrSweepInProgress
	}
	defer release()

	now := j.opts.now()
	sum = newSummary(PolicyJobName, now)
	log := j.log.With("run_id", sum.RunID)
	log.Info("policy reconciliation started", "today", status.DateOf(now).Format("2006-01-02"))
	defer func() { j.opts.finish(log, &sum, err) }()

	policies, err := j.policies.FindAll(ctx)
	if err != nil {
		return sum, fmt.Errorf("load policies: %w", err)
	}

	set, err := j.statuses.PolicyStatuses(ctx)
	if err != nil {
		sum.Processed = len(policies)
		sum.Failed = len(policies)
		return sum, err
	}

	defer func() {
		if sum.Updated > 0 {
			cache.Invalidate(context.WithoutCancel(ctx), j.cache, log, cachekeys.Prefix(cachekeys.CollectionPolicies))
		}
	}()

	for _, policy := range policies {
		if err = ctx.Err(); err != nil {
			log.Warn("policy reconciliation interrupted", "remaining", len(policies)-sum.Processed)
			return sum, err
		}
		sum.Processed++

		current, known := set.Code(policy.PolicyStatusID)
		if !known {
			log.Warn("policy has an unknown status, recomputing", "policy_id", policy.ID, "status_id", policy.PolicyStatusID)
		}
		if current == models.PolicyStatusCancelled {
			sum.CancelledSkipped++
			continue
		}

		want := status.ClassifyPolicy(current, policy.EndDate, now)
		wantID := set.ID(want)
		if policy.PolicyStatusID == wantID {
			continue
		}

		if uerr := j.policies.UpdateStatus(ctx, policy.ID, wantID); uerr != nil {
			sum.Failed++
			log.Error("failed to update policy status", "policy_id", policy.ID, "status", want, "error", uerr)
			continue
		}
		sum.Updated++
		log.Debug("policy status changed", "policy_id", policy.ID, "from", current, "to", want)

		if want == models.PolicyStatusCompleted {
			if j.cleanup(ctx, log, policy.ID) {
				sum.CleanedUp++
			}
		}
	}

	return sum, nil
}

// cleanup reloads the freshly completed policy and hands it to the payment
// cleaner. Failures leave the status update in place.
func (j *PolicyJob) cleanup(ctx context.Context, log *slog.Logger, policyID uint) bool {
	policy, err := j.policies.GetByID(ctx, policyID)
	if err != nil {
		log.Error("failed to reload completed policy", "policy_id", policyID, "error", err)
		return false
	}
	removed, err := j.cleaner.ValidateAndCleanupPayments(ctx, policy)
	if err != nil {
		log.Error("payment cleanup failed", "policy_id", policyID, "error", err)
		return false
	}
	log.Debug("payments cleaned up", "policy_id", policyID, "removed", removed)
	return true
}
