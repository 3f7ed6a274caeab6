package reconcile

import (
	"context"
	"testing"
	"time"

	"agency/internal/models"
	"agency/internal/repositories/memory"
	creditcard "agency/internal/services/credit_card"
	"agency/internal/services/policy"
	"agency/internal/services/status"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 02:00 UTC on May 1st is still April 30th in UTC-5.
const lateEvening = "2025-05-01T02:00:00Z"

func TestPolicyJob_AgreesWithCreationStatusOutsideUTC(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC-5", -5*60*60)
	clock := fixedClock(lateEvening)

	payments := memory.NewPaymentStore()
	policies := memory.NewPolicyStore(payments)
	c := memory.NewCache()
	resolver := status.NewResolver(memory.NewStatusStore())

	svc := policy.NewService(policies, payments, c, resolver,
		policy.WithClock(clock), policy.WithLocation(loc))
	created, err := svc.CreatePolicy(ctx, models.CreatePolicyInput{
		PolicyNumber:  "GNP-0501",
		CustomerID:    1,
		CompanyID:     1,
		StartDate:     day("2024-05-01"),
		EndDate:       day("2025-05-01"),
		PremiumAmount: decimal.RequireFromString("1200.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, policyCloseToCompletion, created.PolicyStatusID, "end date is tomorrow in the local zone")

	job := NewPolicyJob(policies, resolver, svc, c, WithClock(clock), WithLocation(loc))
	sum, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.Zero(t, sum.Updated)
	assert.Zero(t, sum.CleanedUp)

	stored, err := policies.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, policyCloseToCompletion, stored.PolicyStatusID)
}

func TestCardJob_AgreesWithCreationStatusOutsideUTC(t *testing.T) {
	ctx := context.Background()
	loc := time.FixedZone("UTC-5", -5*60*60)
	clock := fixedClock(lateEvening)

	cards := memory.NewCardStore()
	c := memory.NewCache()
	resolver := status.NewResolver(memory.NewStatusStore())
	cipher, err := creditcard.NewEphemeralCipher()
	require.NoError(t, err)

	svc := creditcard.NewService(cards, c, resolver, cipher,
		creditcard.WithClock(clock), creditcard.WithLocation(loc))
	created, err := svc.CreateCard(ctx, models.CreateCardInput{
		CustomerID:     1,
		HolderName:     "Luis Mora",
		CardNumber:     "4242424242424242",
		ExpirationDate: time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, cardActive, created.CardStatusID, "local month still has May ahead")

	job := NewCardJob(cards, resolver, c, WithClock(clock), WithLocation(loc))
	sum, err := job.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.Zero(t, sum.Updated)
}
