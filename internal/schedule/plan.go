package schedule

import (
	"sort"
	"time"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// Plan resolves every (medicine, time) pair to its next occurrence after
// now, sorted soonest first. Malformed entries are skipped so one bad
// record cannot block the rest. log may be nil.
func Plan(meds []domain.Medicine, now time.Time, log *logger.Logger) []domain.DueEvent {
	var out []domain.DueEvent
	for i := range meds {
		m := &meds[i]
		if !m.Valid() {
			if log != nil {
				log.Debug("skipping malformed medicine %q (id=%q, times=%d)", m.Name, m.ID, len(m.Times))
			}
			continue
		}
		days := m.AllowedDays()
		for _, t := range m.Times {
			tod, err := domain.ParseTimeOfDay(t)
			if err != nil {
				if log != nil {
					log.Debug("skipping %s for %q: %v", t, m.Name, err)
				}
				continue
			}
			out = append(out, domain.NewDueEvent(m, tod.String(), NextOccurrence(tod, days, now)))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].When.Equal(out[j].When) {
			return out[i].Reminder.Tag < out[j].Reminder.Tag
		}
		return out[i].When.Before(out[j].When)
	})
	return out
}
