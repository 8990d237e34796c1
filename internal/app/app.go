// Package app wires meditime's components together so every command
// shares one construction path.
package app

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/hammamikhairi/meditime/internal/config"
	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
	"github.com/hammamikhairi/meditime/internal/medicine"
	"github.com/hammamikhairi/meditime/internal/notify"
	"github.com/hammamikhairi/meditime/internal/schedule"
	"github.com/hammamikhairi/meditime/internal/storage"
)

// Store is everything meditime persists.
type Store interface {
	domain.MedicineStore
	domain.PermissionStore
}

// Option configures New.
type Option func(*options)

type options struct {
	store      Store
	ephemeral  bool
	logOut     io.Writer
	caps       *notify.Capabilities
	probeOpts  []notify.ProbeOption
	prompter   domain.Prompter
	onActivate func()
	schedOpts  []schedule.Option
	svcOpts    []medicine.Option
	now        func() time.Time
}

// WithStore replaces the on-disk store, e.g. with an in-memory one.
func WithStore(s Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithEphemeralStore keeps everything in memory for this run only.
func WithEphemeralStore() Option {
	return func(o *options) {
		o.ephemeral = true
	}
}

// WithLogOutput overrides the configured log destination.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOut = w
	}
}

// WithCapabilities skips probing and uses caps as-is.
func WithCapabilities(caps notify.Capabilities) Option {
	return func(o *options) {
		o.caps = &caps
	}
}

// WithProbeOptions passes options through to notify.Probe.
func WithProbeOptions(opts ...notify.ProbeOption) Option {
	return func(o *options) {
		o.probeOpts = append(o.probeOpts, opts...)
	}
}

// WithPrompter sets how the permission question is asked. Defaults to
// a line prompt on stdin/stdout.
func WithPrompter(p domain.Prompter) Option {
	return func(o *options) {
		o.prompter = p
	}
}

// WithActivation sets what a click on a notification does.
func WithActivation(fn func()) Option {
	return func(o *options) {
		o.onActivate = fn
	}
}

// WithClock replaces time.Now across the service and the scheduler.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithSchedulerOptions passes options through to the scheduler.
func WithSchedulerOptions(opts ...schedule.Option) Option {
	return func(o *options) {
		o.schedOpts = append(o.schedOpts, opts...)
	}
}

// WithMedicineOptions passes options through to the medicine service.
func WithMedicineOptions(opts ...medicine.Option) Option {
	return func(o *options) {
		o.svcOpts = append(o.svcOpts, opts...)
	}
}

// App holds the wired components.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Store     Store
	Medicines *medicine.Service
	Notifier  *notify.Dispatcher
	Reminders *Reminders

	now     func() time.Time
	disk    *storage.DiskStore
	closers []io.Closer
}

// New builds the application from cfg. The reminder loop is created but
// not started; see Run.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{Config: cfg, now: o.now}

	logOut := o.logOut
	if logOut == nil {
		w, closer, err := openLog(cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", cfg.LogFile, err)
			w = os.Stderr
		}
		if closer != nil {
			a.closers = append(a.closers, closer)
		}
		logOut = w
	}
	// Third-party packages logging through the standard logger land in
	// the same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)
	a.Log = logger.New(cfg.LogLevel, logOut)

	a.Store = o.store
	if a.Store == nil && o.ephemeral {
		a.Store = storage.NewMemoryStore(a.Log.Named("storage"))
	}
	if a.Store == nil {
		disk, err := storage.NewDiskStore(cfg.Path, a.Log.Named("storage"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.disk = disk
		a.Store = disk
	}

	svcOpts := append([]medicine.Option{medicine.WithClock(o.now)}, o.svcOpts...)
	a.Medicines = medicine.New(ctx, a.Store, a.Log.Named("medicine"), svcOpts...)

	caps := o.caps
	if caps == nil {
		probed := notify.Probe(cfg.Notify, a.Log.Named("notify"), o.probeOpts...)
		caps = &probed
	}
	prompter := o.prompter
	if prompter == nil {
		prompter = notify.NewLinePrompter(os.Stdin, os.Stdout)
	}
	var dispOpts []notify.DispatcherOption
	if o.onActivate != nil {
		dispOpts = append(dispOpts, notify.WithActivation(o.onActivate))
	}
	a.Notifier = notify.NewDispatcher(*caps, a.Store, prompter, a.Log.Named("notify"), dispOpts...)

	schedOpts := append([]schedule.Option{schedule.WithHorizon(cfg.Horizon), schedule.WithClock(o.now)}, o.schedOpts...)
	a.Reminders = NewReminders(ctx, a.Medicines, a.Notifier, a.Log, cfg.Housekeeping, schedOpts...)

	return a, nil
}

// Run starts the reminder loop and, for on-disk stores, follows writes
// made by other processes. It blocks until ctx ends.
func (a *App) Run(ctx context.Context) error {
	a.Reminders.Start()
	defer a.Reminders.Close()

	if a.disk != nil {
		changes, err := a.disk.Watch(ctx)
		if err != nil {
			a.Log.Warn("not watching %s for external changes: %v", a.disk.BasePath(), err)
		} else {
			go a.Reminders.Follow(ctx, changes)
		}
	}

	<-ctx.Done()
	a.Notifier.Wait()
	return nil
}

// NextDue summarises the soonest upcoming dose, or nil when nothing is
// scheduled.
func (a *App) NextDue() *domain.NextDue {
	return schedule.NextDueAcrossAll(a.Medicines.List(), a.now())
}

// Close releases the log file.
func (a *App) Close() {
	for _, c := range a.closers {
		c.Close()
	}
	a.closers = nil
}

func openLog(path string) (io.Writer, io.Closer, error) {
	if path == "" || path == config.LogToStderr {
		return os.Stderr, nil, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}
