package app

import (
	"context"
	"sync"
	"time"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
	"github.com/hammamikhairi/meditime/internal/medicine"
	"github.com/hammamikhairi/meditime/internal/schedule"
)

// ReminderPresenter receives due reminders.
type ReminderPresenter interface {
	PresentReminder(ctx context.Context, r domain.Reminder)
}

// Reminders keeps one armed schedule in step with the medicine list. The
// schedule is rebuilt from scratch whenever the list changes, when the
// housekeeping tick finds it stale, when the store changes underneath
// us, and when the user comes back to the UI.
type Reminders struct {
	ctx       context.Context
	svc       *medicine.Service
	presenter ReminderPresenter
	sched     *schedule.Scheduler
	log       *logger.Logger

	mu          sync.Mutex // serialises rebuilds
	unsubscribe func()
	rebuilds    int
	closed      bool
}

// NewReminders creates the loop. housekeeping is the stale-check
// interval; zero disables it. opts are passed to the scheduler.
func NewReminders(ctx context.Context, svc *medicine.Service, presenter ReminderPresenter, log *logger.Logger, housekeeping time.Duration, opts ...schedule.Option) *Reminders {
	r := &Reminders{
		ctx:       ctx,
		svc:       svc,
		presenter: presenter,
		log:       log,
	}
	opts = append(opts, schedule.WithHousekeeping(housekeeping, r.housekeep))
	r.sched = schedule.New(log.Named("schedule"), opts...)
	return r
}

// Start subscribes to list changes and arms the current list.
func (r *Reminders) Start() {
	r.mu.Lock()
	if r.unsubscribe == nil && !r.closed {
		r.unsubscribe = r.svc.Subscribe(r.arm)
	}
	r.mu.Unlock()
	r.Rebuild()
}

// Rebuild re-arms the schedule from the current list.
func (r *Reminders) Rebuild() {
	r.arm(r.svc.List())
}

func (r *Reminders) arm(meds []domain.Medicine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.rebuilds++
	r.sched.Arm(meds, r.due)
}

func (r *Reminders) due(rem domain.Reminder) {
	r.presenter.PresentReminder(r.ctx, rem)
}

func (r *Reminders) housekeep() {
	if r.sched.Stale() {
		r.log.Debug("schedule stale, rebuilding")
		r.Rebuild()
	}
}

// Follow reloads the list every time changes delivers a signal, until
// the channel closes or ctx ends. Reloading notifies subscribers, which
// re-arms the schedule.
func (r *Reminders) Follow(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			r.log.Debug("store changed externally, reloading")
			r.svc.Reload(ctx)
		}
	}
}

// Armed returns the events currently waiting to fire.
func (r *Reminders) Armed() []domain.DueEvent {
	return r.sched.Armed()
}

// Rebuilds reports how many times the schedule has been armed.
func (r *Reminders) Rebuilds() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rebuilds
}

// Close unsubscribes and disarms every timer.
func (r *Reminders) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.closed = true
	r.sched.Disarm()
}
