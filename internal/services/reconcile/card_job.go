package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	apperrors "agency/internal/errors"
	"agency/internal/repositories"
	"agency/internal/repositories/cache"
	"agency/internal/services/status"
	cachekeys "agency/internal/utils/cache"
)

// CardJob moves cards between ACTIVE, ABOUT_TO_EXPIRE and EXPIRED.
type CardJob struct {
	cards    repositories.CreditCardRepository
	statuses *status.Resolver
	cache    repositories.CacheRepository
	opts     options
	log      *slog.Logger

	running sync.Mutex
}

func NewCardJob(
	cards repositories.CreditCardRepository,
	statuses *status.Resolver,
	cacheRepo repositories.CacheRepository,
	opts ...Option,
) *CardJob {
	if cards == nil {
		panic("card repository is required")
	}
	if statuses == nil {
		panic("status resolver is required")
	}
	if cacheRepo == nil {
		panic("cache is required")
	}
	o := buildOptions(opts)
	return &CardJob{
		cards:    cards,
		statuses: statuses,
		cache:    cacheRepo,
		opts:     o,
		log:      o.log.With("job", CardJobName),
	}
}

func (j *CardJob) Name() string { return CardJobName }

// Run sweeps every card. A second Run while one is in flight returns
// ErrSweepInProgress without touching the store.
func (j *CardJob) Run(ctx context.Context) (sum Summary, err error) {
	if !j.running.TryLock() {
		j.opts.metrics.RecordSweep(Summary{Job: CardJobName}, apperrors.ErrSweepInProgress)
		return Summary{Job: CardJobName}, apperrors.ErrSweepInProgress
	}
	defer j.running.Unlock()

	release, held := j.opts.lease(ctx, CardJobName)
	if !held {
		j.opts.metrics.RecordSweep(Summary{Job: CardJobName}, apperrors.ErrSweepInProgress)
		return Summary{Job: CardJobName}, apperrors.ErrSweepInProgress
	}
	defer release()

	now := j.opts.now()
	sum = newSummary(CardJobName, now)
	log := j.log.With("run_id", sum.RunID)
	log.Info("card reconciliation started", "now", now)
	defer func() { j.opts.finish(log, &sum, err) }()

	cards, err := j.cards.FindAll(ctx)
	if err != nil {
		return sum, fmt.Errorf("load cards: %w", err)
	}

	set, err := j.statuses.CardStatuses(ctx)
	if err != nil {
		sum.Processed = len(cards)
		sum.Failed = len(cards)
		return sum, err
	}

	defer func() {
		if sum.Updated > 0 {
			cache.Invalidate(context.WithoutCancel(ctx), j.cache, log, cachekeys.Prefix(cachekeys.CollectionCards))
		}
	}()

	for _, card := range cards {
		if err = ctx.Err(); err != nil {
			log.Warn("card reconciliation interrupted", "remaining", len(cards)-sum.Processed)
			return sum, err
		}
		sum.Processed++

		want := status.ClassifyCard(card.ExpirationDate, now)
		wantID := set.ID(want)
		if card.CardStatusID == wantID {
			continue
		}

		if uerr := j.cards.UpdateStatus(ctx, card.ID, wantID); uerr != nil {
			sum.Failed++
			log.Error("failed to update card status", "card_id", card.ID, "status", want, "error", uerr)
			continue
		}
		sum.Updated++
		from, _ := set.Code(card.CardStatusID)
		log.Debug("card status changed", "card_id", card.ID, "from", from, "to", want)
	}

	return sum, nil
}
