package status

import (
	"testing"
	"time"

	"agency/internal/models"

	"github.com/stretchr/testify/assert"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassifyCard(t *testing.T) {
	tests := []struct {
		name       string
		expiration time.Time
		now        time.Time
		want       models.CardStatusCode
	}{
		{
			name:       "mid month expiration seen on the first",
			expiration: ts("2025-06-15T00:00:00Z"),
			now:        ts("2025-06-01T00:00:00Z"),
			want:       models.CardStatusAboutToExpire,
		},
		{
			name:       "same card after it lapsed",
			expiration: ts("2025-06-15T00:00:00Z"),
			now:        ts("2025-07-02T00:00:00Z"),
			want:       models.CardStatusExpired,
		},
		{
			name:       "expiration equal to now is about to expire",
			expiration: ts("2025-06-10T08:30:00Z"),
			now:        ts("2025-06-10T08:30:00Z"),
			want:       models.CardStatusAboutToExpire,
		},
		{
			name:       "one nanosecond before now is expired",
			expiration: ts("2025-06-10T08:30:00Z").Add(-time.Nanosecond),
			now:        ts("2025-06-10T08:30:00Z"),
			want:       models.CardStatusExpired,
		},
		{
			name:       "earlier the same day is expired, no date truncation",
			expiration: ts("2025-06-10T00:00:00Z"),
			now:        ts("2025-06-10T12:00:00Z"),
			want:       models.CardStatusExpired,
		},
		{
			name:       "last instant of the month is about to expire",
			expiration: ts("2025-06-30T23:59:59Z"),
			now:        ts("2025-06-01T00:00:00Z"),
			want:       models.CardStatusAboutToExpire,
		},
		{
			name:       "next month start is active",
			expiration: ts("2025-07-01T00:00:00Z"),
			now:        ts("2025-06-20T00:00:00Z"),
			want:       models.CardStatusActive,
		},
		{
			name:       "december rolls into january",
			expiration: ts("2026-01-01T00:00:00Z"),
			now:        ts("2025-12-31T23:00:00Z"),
			want:       models.CardStatusActive,
		},
		{
			name:       "far future is active",
			expiration: ts("2029-03-31T00:00:00Z"),
			now:        ts("2025-06-01T00:00:00Z"),
			want:       models.CardStatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCard(tt.expiration, tt.now))
		})
	}
}

func TestClassifyCard_Intervals(t *testing.T) {
	now := ts("2025-02-11T10:00:00Z")
	next := NextMonthStart(now)
	assert.Equal(t, ts("2025-03-01T00:00:00Z"), next)

	for d := -72 * time.Hour; d < 60*24*time.Hour; d += 7 * time.Hour {
		exp := now.Add(d)
		got := ClassifyCard(exp, now)
		switch {
		case exp.Before(now):
			assert.Equal(t, models.CardStatusExpired, got, exp)
		case exp.Before(next):
			assert.Equal(t, models.CardStatusAboutToExpire, got, exp)
		default:
			assert.Equal(t, models.CardStatusActive, got, exp)
		}
	}
}

func TestClassifyPolicy(t *testing.T) {
	tests := []struct {
		name    string
		current models.PolicyStatusCode
		endDate time.Time
		now     time.Time
		want    models.PolicyStatusCode
	}{
		{
			name:    "ends today is completed",
			current: models.PolicyStatusActive,
			endDate: date("2025-05-01"),
			now:     date("2025-05-01"),
			want:    models.PolicyStatusCompleted,
		},
		{
			name:    "ends today even late in the evening",
			current: models.PolicyStatusCloseToCompletion,
			endDate: date("2025-05-01"),
			now:     ts("2025-05-01T23:59:00Z"),
			want:    models.PolicyStatusCompleted,
		},
		{
			name:    "within a month is close to completion",
			current: models.PolicyStatusActive,
			endDate: date("2025-05-20"),
			now:     date("2025-05-01"),
			want:    models.PolicyStatusCloseToCompletion,
		},
		{
			name:    "exactly one month ahead is close to completion",
			current: models.PolicyStatusActive,
			endDate: date("2025-06-01"),
			now:     ts("2025-05-01T18:00:00Z"),
			want:    models.PolicyStatusCloseToCompletion,
		},
		{
			name:    "one month and a day ahead is active",
			current: models.PolicyStatusCloseToCompletion,
			endDate: date("2025-06-02"),
			now:     date("2025-05-01"),
			want:    models.PolicyStatusActive,
		},
		{
			name:    "months ahead is active",
			current: models.PolicyStatusActive,
			endDate: date("2025-08-01"),
			now:     date("2025-05-01"),
			want:    models.PolicyStatusActive,
		},
		{
			name:    "completed policy extended is active again",
			current: models.PolicyStatusCompleted,
			endDate: date("2026-05-01"),
			now:     date("2025-05-01"),
			want:    models.PolicyStatusActive,
		},
		{
			name:    "cancelled stays cancelled after end date",
			current: models.PolicyStatusCancelled,
			endDate: date("2024-01-01"),
			now:     date("2025-05-01"),
			want:    models.PolicyStatusCancelled,
		},
		{
			name:    "cancelled stays cancelled before end date",
			current: models.PolicyStatusCancelled,
			endDate: date("2030-01-01"),
			now:     date("2025-05-01"),
			want:    models.PolicyStatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyPolicy(tt.current, tt.endDate, tt.now))
		})
	}
}

func TestClassifyPolicy_CancelledIsSticky(t *testing.T) {
	now := date("2025-05-01")
	for d := -400; d <= 400; d += 13 {
		end := now.AddDate(0, 0, d)
		assert.Equal(t, models.PolicyStatusCancelled, ClassifyPolicy(models.PolicyStatusCancelled, end, now))
	}
}

func TestClassifyNewPolicy(t *testing.T) {
	now := date("2025-05-01")
	assert.Equal(t, models.PolicyStatusCompleted, ClassifyNewPolicy(date("2025-04-30"), now))
	assert.Equal(t, models.PolicyStatusCloseToCompletion, ClassifyNewPolicy(date("2025-05-02"), now))
	assert.Equal(t, models.PolicyStatusActive, ClassifyNewPolicy(date("2026-05-01"), now))
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*60*60)
	evening := time.Date(2025, 5, 1, 22, 0, 0, 0, loc)

	assert.Equal(t, date("2025-05-01"), DateOf(evening), "calendar date is taken in the instant's own zone")
	assert.Equal(t, date("2025-05-01"), DateOf(ts("2025-05-01T00:00:00Z")))
}
