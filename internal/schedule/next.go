// Package schedule computes when doses are due and arms the timers that
// fire reminders for them.
package schedule

import (
	"math"
	"time"

	"github.com/hammamikhairi/meditime/internal/domain"
)

// NextOccurrence returns the earliest instant after now at which tod falls
// on one of the allowed weekdays. Today counts only if the candidate is
// strictly after now. If no day within the next week is allowed (an empty
// allowed set), today's candidate is returned even when it has passed.
func NextOccurrence(tod domain.TimeOfDay, allowed []time.Weekday, now time.Time) time.Time {
	target := atDay(now, 0, tod)
	if contains(allowed, now.Weekday()) && target.After(now) {
		return target
	}

	for add := 1; add <= 7; add++ {
		d := atDay(now, add, tod)
		if contains(allowed, d.Weekday()) {
			return d
		}
	}
	return target
}

// atDay applies tod to the calendar day now+add, in now's location.
// time.Date normalises day overflow and DST gaps.
func atDay(now time.Time, add int, tod domain.TimeOfDay) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+add, tod.Hour, tod.Minute, 0, 0, now.Location())
}

func contains(days []time.Weekday, wd time.Weekday) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}

// NextDueAcrossAll finds the soonest upcoming dose across every medicine.
// Returns nil when there is nothing to schedule.
func NextDueAcrossAll(meds []domain.Medicine, now time.Time) *domain.NextDue {
	events := Plan(meds, now, nil)
	if len(events) == 0 {
		return nil
	}
	next := events[0]
	mins := roundMinutes(next.When.Sub(now))
	return &domain.NextDue{
		Name:    next.MedicineName,
		Time:    next.TimeOfDay,
		Message: domain.DueMessage(mins),
	}
}

// roundMinutes rounds half up, so 30s counts as a full minute.
func roundMinutes(d time.Duration) int {
	return int(math.Floor(d.Minutes() + 0.5))
}
