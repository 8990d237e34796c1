package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// PermissionQuestion is what the user is asked before notifications are
// turned on.
const PermissionQuestion = "Allow meditime to show medicine reminders?"

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithActivation sets what happens when the user clicks a notification.
func WithActivation(fn func()) DispatcherOption {
	return func(d *Dispatcher) {
		d.onActivate = fn
	}
}

// Dispatcher turns reminders into notifications and cues, subject to
// the user's permission.
type Dispatcher struct {
	caps       Capabilities
	perms      domain.PermissionStore
	prompter   domain.Prompter
	log        *logger.Logger
	onActivate func()

	mu sync.Mutex // serialises permission requests
	wg sync.WaitGroup
}

// NewDispatcher creates a dispatcher over the probed capabilities.
func NewDispatcher(caps Capabilities, perms domain.PermissionStore, prompter domain.Prompter, log *logger.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{caps: caps, perms: perms, prompter: prompter, log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Available reports whether notifications can be shown at all.
func (d *Dispatcher) Available() bool {
	return d.caps.Notifications != nil
}

// Permission returns the current decision.
func (d *Dispatcher) Permission(ctx context.Context) domain.Permission {
	return d.perms.LoadPermission(ctx)
}

// RequestPermission asks the user once. An earlier decision is returned
// without asking. It never returns PermissionDefault.
func (d *Dispatcher) RequestPermission(ctx context.Context) domain.Permission {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.Available() {
		return domain.PermissionDenied
	}
	if p := d.perms.LoadPermission(ctx); p != domain.PermissionDefault {
		return p
	}

	p := domain.PermissionDenied
	if ok, err := d.prompter.Confirm(ctx, PermissionQuestion); err != nil {
		d.log.Debug("permission prompt: %v", err)
	} else if ok {
		p = domain.PermissionGranted
	}

	if err := d.perms.SavePermission(ctx, p); err != nil {
		d.log.Warn("saving notification permission: %v", err)
	}
	d.log.Info("notification permission %s", p)
	return p
}

// PresentReminder shows r if notifications are available and granted,
// then plays the requested cues in the background. It never prompts and
// never fails: problems are logged.
func (d *Dispatcher) PresentReminder(ctx context.Context, r domain.Reminder) {
	if !d.Available() {
		return
	}
	if d.perms.LoadPermission(ctx) != domain.PermissionGranted {
		d.log.Debug("reminder %s suppressed: permission not granted", r.Tag)
		return
	}

	n := domain.Notification{
		Title:      r.Title,
		Body:       r.Body,
		Tag:        r.Tag,
		Silent:     !r.Sound,
		OnActivate: d.onActivate,
	}
	if err := d.caps.Notifications.Present(ctx, n); err != nil {
		d.log.Warn("presenting %s: %v", r.Tag, err)
	}

	if r.Sound && d.caps.Sound != nil {
		d.cue(ctx, "sound", d.caps.Sound)
	}
	if r.Vibrate && d.caps.Haptics != nil {
		d.cue(ctx, "haptic", d.caps.Haptics)
	}
}

func (d *Dispatcher) cue(ctx context.Context, kind string, c domain.Cue) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := c.Play(context.WithoutCancel(ctx)); err != nil {
			d.log.Debug("%s cue: %v", kind, err)
		}
	}()
}

// Wait blocks until every cue started so far has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func sprintfln(format string, a ...interface{}) string {
	return fmt.Sprintf(format+"\n", a...)
}
