package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agency/internal/models"
	"agency/internal/repositories"
)

// ErrStatusNotConfigured means a status reference row the classifiers can
// produce is missing from the store. Callers must not fall back to a
// default status.
var ErrStatusNotConfigured = errors.New("status reference row not configured")

// CardStatuses maps every card status code to its row ID.
type CardStatuses struct {
	ids   map[models.CardStatusCode]uint
	codes map[uint]models.CardStatusCode
}

func (s CardStatuses) ID(code models.CardStatusCode) uint {
	return s.ids[code]
}

func (s CardStatuses) Code(id uint) (models.CardStatusCode, bool) {
	code, ok := s.codes[id]
	return code, ok
}

// PolicyStatuses maps every policy status code to its row ID.
type PolicyStatuses struct {
	ids   map[models.PolicyStatusCode]uint
	codes map[uint]models.PolicyStatusCode
}

func (s PolicyStatuses) ID(code models.PolicyStatusCode) uint {
	return s.ids[code]
}

func (s PolicyStatuses) Code(id uint) (models.PolicyStatusCode, bool) {
	code, ok := s.codes[id]
	return code, ok
}

// PaymentStatuses maps every payment status code to its row ID.
type PaymentStatuses struct {
	ids map[models.PaymentStatusCode]uint
}

func (s PaymentStatuses) ID(code models.PaymentStatusCode) uint {
	return s.ids[code]
}

// Resolver looks status rows up in the store each time it is asked, so a
// sweep always works with the IDs currently persisted.
type Resolver struct {
	repo repositories.StatusRepository
}

func NewResolver(repo repositories.StatusRepository) *Resolver {
	return &Resolver{repo: repo}
}

// CardStatuses resolves all card status rows or fails naming the first
// missing one.
func (r *Resolver) CardStatuses(ctx context.Context) (CardStatuses, error) {
	set := CardStatuses{
		ids:   make(map[models.CardStatusCode]uint, len(models.CardStatusCodes)),
		codes: make(map[uint]models.CardStatusCode, len(models.CardStatusCodes)),
	}
	for _, code := range models.CardStatusCodes {
		row, err := r.repo.FindCardStatus(ctx, code)
		if err != nil {
			return CardStatuses{}, resolveError("card", string(code), err)
		}
		set.ids[code] = row.ID
		set.codes[row.ID] = code
	}
	return set, nil
}

// PolicyStatuses resolves all policy status rows or fails naming the first
// missing one.
func (r *Resolver) PolicyStatuses(ctx context.Context) (PolicyStatuses, error) {
	set := PolicyStatuses{
		ids:   make(map[models.PolicyStatusCode]uint, len(models.PolicyStatusCodes)),
		codes: make(map[uint]models.PolicyStatusCode, len(models.PolicyStatusCodes)),
	}
	for _, code := range models.PolicyStatusCodes {
		row, err := r.repo.FindPolicyStatus(ctx, code)
		if err != nil {
			return PolicyStatuses{}, resolveError("policy", string(code), err)
		}
		set.ids[code] = row.ID
		set.codes[row.ID] = code
	}
	return set, nil
}

func (r *Resolver) PaymentStatuses(ctx context.Context) (PaymentStatuses, error) {
	set := PaymentStatuses{ids: make(map[models.PaymentStatusCode]uint, len(models.PaymentStatusCodes))}
	for _, code := range models.PaymentStatusCodes {
		row, err := r.repo.FindPaymentStatus(ctx, code)
		if err != nil {
			return PaymentStatuses{}, resolveError("payment", string(code), err)
		}
		set.ids[code] = row.ID
	}
	return set, nil
}

// ClassifyCard resolves the card status rows and returns the row ID for
// the card's expiration at now.
func (r *Resolver) ClassifyCard(ctx context.Context, expiration, now time.Time) (uint, error) {
	set, err := r.CardStatuses(ctx)
	if err != nil {
		return 0, err
	}
	return set.ID(ClassifyCard(expiration, now)), nil
}

// ClassifyNewPolicy returns the row ID a policy ending at endDate starts in.
func (r *Resolver) ClassifyNewPolicy(ctx context.Context, endDate, now time.Time) (uint, error) {
	set, err := r.PolicyStatuses(ctx)
	if err != nil {
		return 0, err
	}
	return set.ID(ClassifyNewPolicy(endDate, now)), nil
}

func resolveError(kind, code string, err error) error {
	if errors.Is(err, repositories.ErrStatusNotFound) {
		return fmt.Errorf("%w: %s status %s", ErrStatusNotConfigured, kind, code)
	}
	return fmt.Errorf("resolve %s status %s: %w", kind, code, err)
}
