package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "agency/internal/errors"
	"agency/internal/logger"
	"agency/internal/models"
	"agency/internal/repositories"
	"agency/internal/repositories/cache"
	"agency/internal/services/status"
	cachekeys "agency/internal/utils/cache"
)

type service struct {
	policies repositories.PolicyRepository
	payments repositories.PaymentRepository
	cache    repositories.CacheRepository
	statuses *status.Resolver
	log      *slog.Logger
	clock    func() time.Time
	location *time.Location
	ttl      time.Duration
}

type Option func(*service)

func WithLogger(log *slog.Logger) Option {
	return func(s *service) { s.log = log }
}

func WithClock(clock func() time.Time) Option {
	return func(s *service) { s.clock = clock }
}

// WithLocation sets the zone statuses are classified in. Use the same
// location as the reconciliation jobs.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(s *service) { s.ttl = ttl }
}

func NewService(
	policies repositories.PolicyRepository,
	payments repositories.PaymentRepository,
	cacheRepo repositories.CacheRepository,
	statuses *status.Resolver,
	opts ...Option,
) Service {
	if policies == nil || payments == nil {
		panic("policy and payment repositories are required")
	}
	if cacheRepo == nil {
		panic("cache is required")
	}
	if statuses == nil {
		panic("status resolver is required")
	}

	s := &service{
		policies: policies,
		payments: payments,
		cache:    cacheRepo,
		statuses: statuses,
		log:      logger.Discard(),
		clock:    time.Now,
		location: time.UTC,
		ttl:      cachekeys.CollectionTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ListPolicies(ctx context.Context) ([]*models.Policy, error) {
	return cache.Remember(ctx, s.cache, s.log, cachekeys.AllKey(cachekeys.CollectionPolicies), s.ttl, s.policies.FindAll)
}

func (s *service) GetPolicy(ctx context.Context, policyID uint) (*models.Policy, error) {
	policy, err := s.policies.GetByID(ctx, policyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPolicyNotFound) {
			return nil, apperrors.ErrPolicyNotFound
		}
		return nil, fmt.Errorf("failed to get policy: %w", err)
	}
	return policy, nil
}

// CreatePolicy issues a policy with its installment schedule. When no
// payment count is given, one installment per month of coverage is created.
func (s *service) CreatePolicy(ctx context.Context, input models.CreatePolicyInput) (*models.Policy, error) {
	if strings.TrimSpace(input.PolicyNumber) == "" || input.CustomerID == 0 || input.CompanyID == 0 {
		return nil, apperrors.ErrInvalidPolicy
	}
	if input.StartDate.IsZero() || !status.DateOf(input.EndDate).After(status.DateOf(input.StartDate)) {
		return nil, apperrors.ErrInvalidPolicyDates
	}
	if !input.PremiumAmount.IsPositive() || input.PaymentCount < 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	statusID, err := s.statuses.ClassifyNewPolicy(ctx, input.EndDate, s.now())
	if err != nil {
		return nil, err
	}
	paymentStatuses, err := s.statuses.PaymentStatuses(ctx)
	if err != nil {
		return nil, err
	}

	count := input.PaymentCount
	if count == 0 {
		count = monthsBetween(input.StartDate, input.EndDate)
	}

	policy := &models.Policy{
		PolicyNumber:   strings.TrimSpace(input.PolicyNumber),
		CustomerID:     input.CustomerID,
		CompanyID:      input.CompanyID,
		CreditCardID:   input.CreditCardID,
		StartDate:      status.DateOf(input.StartDate),
		EndDate:        status.DateOf(input.EndDate),
		PremiumAmount:  input.PremiumAmount,
		PaymentCount:   count,
		PolicyStatusID: statusID,
	}
	installments := buildInstallments(input.PremiumAmount, input.StartDate, count, paymentStatuses.ID(models.PaymentStatusPending))

	if err := s.policies.CreateWithPayments(ctx, policy, installments); err != nil {
		return nil, fmt.Errorf("failed to create policy: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cachekeys.Prefix(cachekeys.CollectionPolicies))
	s.log.Info("policy issued", "policy_id", policy.ID, "policy_number", policy.PolicyNumber, "installments", count)
	return policy, nil
}

// CancelPolicy moves the policy to CANCELLED. Cancelling twice is a no-op.
func (s *service) CancelPolicy(ctx context.Context, policyID uint) (*models.Policy, error) {
	policy, err := s.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, err
	}
	set, err := s.statuses.PolicyStatuses(ctx)
	if err != nil {
		return nil, err
	}

	cancelledID := set.ID(models.PolicyStatusCancelled)
	if policy.PolicyStatusID == cancelledID {
		return policy, nil
	}
	if err := s.policies.UpdateStatus(ctx, policyID, cancelledID); err != nil {
		return nil, fmt.Errorf("failed to cancel policy: %w", err)
	}

	cache.Invalidate(ctx, s.cache, s.log, cachekeys.Prefix(cachekeys.CollectionPolicies))
	s.log.Info("policy cancelled", "policy_id", policyID)
	policy.PolicyStatusID = cancelledID
	return policy, nil
}

func (s *service) ListPayments(ctx context.Context, policyID uint) ([]*models.Payment, error) {
	if _, err := s.GetPolicy(ctx, policyID); err != nil {
		return nil, err
	}
	return cache.Remember(ctx, s.cache, s.log, cachekeys.PolicyPaymentsKey(policyID), s.ttl,
		func(ctx context.Context) ([]*models.Payment, error) {
			return s.payments.GetByPolicyID(ctx, policyID)
		})
}

// RegisterPayment settles a pending installment of an uncancelled policy.
func (s *service) RegisterPayment(ctx context.Context, policyID, paymentID uint, input models.RegisterPaymentInput) (*models.Payment, error) {
	if !input.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidAmount
	}

	policy, err := s.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, err
	}
	policyStatuses, err := s.statuses.PolicyStatuses(ctx)
	if err != nil {
		return nil, err
	}
	if policy.PolicyStatusID == policyStatuses.ID(models.PolicyStatusCancelled) {
		return nil, apperrors.ErrPolicyCancelled
	}

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentNotFound) {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	if payment.PolicyID != policyID {
		return nil, apperrors.ErrPaymentNotFound
	}

	paymentStatuses, err := s.statuses.PaymentStatuses(ctx)
	if err != nil {
		return nil, err
	}
	if payment.PaymentStatusID != paymentStatuses.ID(models.PaymentStatusPending) {
		return nil, apperrors.ErrPaymentNotPending
	}

	paidAt := s.now()
	paidID := paymentStatuses.ID(models.PaymentStatusPaid)
	if err := s.payments.RegisterPaid(ctx, paymentID, input.Amount, paidID, paidAt); err != nil {
		return nil, fmt.Errorf("failed to register payment: %w", err)
	}

	cache.Forget(ctx, s.cache, s.log, cachekeys.PolicyPaymentsKey(policyID))
	payment.PaidAmount = input.Amount
	payment.PaymentStatusID = paidID
	payment.PaidAt = &paidAt
	return payment, nil
}

// ValidateAndCleanupPayments requires a COMPLETED policy and deletes its
// PENDING installments due after the end date.
func (s *service) ValidateAndCleanupPayments(ctx context.Context, policy *models.Policy) (int, error) {
	if policy == nil {
		return 0, apperrors.ErrPolicyNotFound
	}

	policyStatuses, err := s.statuses.PolicyStatuses(ctx)
	if err != nil {
		return 0, err
	}
	if policy.PolicyStatusID != policyStatuses.ID(models.PolicyStatusCompleted) {
		return 0, apperrors.ErrPolicyNotCompleted
	}
	paymentStatuses, err := s.statuses.PaymentStatuses(ctx)
	if err != nil {
		return 0, err
	}

	payments, err := s.payments.GetByPolicyID(ctx, policy.ID)
	if err != nil {
		return 0, fmt.Errorf("load payments of policy %d: %w", policy.ID, err)
	}

	pendingID := paymentStatuses.ID(models.PaymentStatusPending)
	end := status.DateOf(policy.EndDate)
	var stale []uint
	for _, p := range payments {
		if p.PaymentStatusID == pendingID && status.DateOf(p.DueDate).After(end) {
			stale = append(stale, p.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.payments.DeleteByIDs(ctx, stale); err != nil {
		return 0, fmt.Errorf("delete payments of policy %d: %w", policy.ID, err)
	}
	cache.Forget(ctx, s.cache, s.log, cachekeys.PolicyPaymentsKey(policy.ID))
	s.log.Info("stale installments removed", "policy_id", policy.ID, "removed", len(stale))
	return len(stale), nil
}

func (s *service) now() time.Time {
	return s.clock().In(s.location)
}
