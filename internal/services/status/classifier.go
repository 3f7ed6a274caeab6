// Package status derives card and policy lifecycle states from wall-clock
// time. The classifiers are pure; Resolver maps the resulting codes onto the
// status rows stored in the database.
package status

import (
	"time"

	"agency/internal/models"
)

// ClassifyCard places a card expiration relative to now:
//
//	expiration < now                   EXPIRED
//	now <= expiration < nextMonthStart ABOUT_TO_EXPIRE
//	otherwise                          ACTIVE
//
// Comparisons keep full timestamp precision.
func ClassifyCard(expiration, now time.Time) models.CardStatusCode {
	if expiration.Before(now) {
		return models.CardStatusExpired
	}
	if expiration.Before(NextMonthStart(now)) {
		return models.CardStatusAboutToExpire
	}
	return models.CardStatusActive
}

// ClassifyPolicy derives the status of an existing policy. CANCELLED is
// terminal and returned unchanged; every other state is recomputed from the
// end date.
func ClassifyPolicy(current models.PolicyStatusCode, endDate, now time.Time) models.PolicyStatusCode {
	if current == models.PolicyStatusCancelled {
		return models.PolicyStatusCancelled
	}
	return ClassifyNewPolicy(endDate, now)
}

// ClassifyNewPolicy assigns the status of a policy being created. Both
// instants are reduced to their calendar date first.
func ClassifyNewPolicy(endDate, now time.Time) models.PolicyStatusCode {
	end := DateOf(endDate)
	today := DateOf(now)
	oneMonthAhead := today.AddDate(0, 1, 0)

	switch {
	case !end.After(today):
		return models.PolicyStatusCompleted
	case !end.After(oneMonthAhead):
		return models.PolicyStatusCloseToCompletion
	default:
		return models.PolicyStatusActive
	}
}

// NextMonthStart is midnight on the first day of the month after t, in t's
// location.
func NextMonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}

// DateOf drops the time of day, keeping the calendar date as observed in
// t's own location.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
