package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// DueFunc receives a reminder when its timer fires.
type DueFunc func(domain.Reminder)

// Option configures the scheduler.
type Option func(*Scheduler)

// WithClock replaces time.Now. Delays are still waited in real time.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithHorizon sets how far ahead events are armed.
func WithHorizon(d time.Duration) Option {
	return func(s *Scheduler) {
		s.horizon = d
	}
}

// WithHousekeeping runs fn every interval while a schedule is armed.
// A zero interval or nil fn disables the tick.
func WithHousekeeping(interval time.Duration, fn func()) Option {
	return func(s *Scheduler) {
		s.tickInterval = interval
		s.onTick = fn
	}
}

// Scheduler owns the timers for one armed schedule. Arm replaces the
// schedule wholesale; timers never re-arm themselves.
type Scheduler struct {
	log          *logger.Logger
	now          func() time.Time
	horizon      time.Duration
	tickInterval time.Duration
	onTick       func()

	mu       sync.Mutex
	gen      uint64 // bumped on every Disarm; stale timer callbacks compare against it
	timers   []*time.Timer
	armed    []armedEvent
	armedDay time.Time
	cancel   context.CancelFunc
}

type armedEvent struct {
	event domain.DueEvent
	fired bool
}

// New creates a scheduler with the given options.
func New(log *logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		log:     log,
		now:     time.Now,
		horizon: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Arm plans meds, keeps events inside the horizon, and sets one timer per
// event. Any previously armed schedule is torn down first.
func (s *Scheduler) Arm(meds []domain.Medicine, onDue DueFunc) {
	now := s.now()
	var upcoming []domain.DueEvent
	for _, ev := range Plan(meds, now, s.log) {
		if ev.When.Sub(now) <= s.horizon {
			upcoming = append(upcoming, ev)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.disarmLocked()
	if len(upcoming) == 0 {
		s.log.Debug("nothing to arm")
		return
	}

	gen := s.gen
	y, m, d := now.Date()
	s.armedDay = time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	s.armed = make([]armedEvent, len(upcoming))
	s.timers = make([]*time.Timer, 0, len(upcoming))

	for i, ev := range upcoming {
		s.armed[i] = armedEvent{event: ev}
		delay := ev.When.Sub(now)
		if delay < 0 {
			delay = 0
		}
		idx := i
		reminder := ev.Reminder
		s.timers = append(s.timers, time.AfterFunc(delay, func() {
			if !s.markFired(gen, idx) {
				return
			}
			s.log.Debug("due: %s", reminder.Tag)
			onDue(reminder)
		}))
	}

	if s.tickInterval > 0 && s.onTick != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		go s.housekeeping(ctx, s.onTick)
	}

	s.log.Info("armed %d reminder(s) within %s", len(upcoming), s.horizon)
}

// markFired records a firing and reports whether it belongs to the
// current schedule.
func (s *Scheduler) markFired(gen uint64, idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || idx >= len(s.armed) {
		return false
	}
	s.armed[idx].fired = true
	return true
}

// Disarm cancels every outstanding timer and the housekeeping tick.
// Safe to call when nothing is armed.
func (s *Scheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
}

func (s *Scheduler) disarmLocked() {
	s.gen++
	for _, t := range s.timers {
		t.Stop()
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if len(s.timers) > 0 {
		s.log.Debug("disarmed %d timer(s)", len(s.timers))
	}
	s.timers = nil
	s.armed = nil
	s.armedDay = time.Time{}
}

// Armed returns the events of the current schedule, soonest first.
func (s *Scheduler) Armed() []domain.DueEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.DueEvent, len(s.armed))
	for i, a := range s.armed {
		out[i] = a.event
	}
	return out
}

// Pending reports how many armed timers have not fired yet.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, a := range s.armed {
		if !a.fired {
			n++
		}
	}
	return n
}

// Stale reports whether the armed schedule should be rebuilt: an event
// has fired (its next occurrence is not armed yet) or the day rolled over.
func (s *Scheduler) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.armed {
		if a.fired {
			return true
		}
	}
	if s.armedDay.IsZero() {
		return false
	}
	now := s.now()
	y, m, d := now.Date()
	return !time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Equal(s.armedDay)
}

func (s *Scheduler) housekeeping(ctx context.Context, fn func()) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
