// Package notify presents due reminders to the user: the notification
// itself, an optional sound cue and an optional haptic cue, each of
// which may be unavailable on the current machine.
package notify

import (
	"os"
	"os/exec"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/hammamikhairi/meditime/internal/audio"
	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// Capabilities lists what this machine can do. A nil field means the
// capability is unavailable.
type Capabilities struct {
	Notifications domain.Presenter
	Sound         domain.Cue
	Haptics       domain.Cue
}

// Settings switches individual capabilities off regardless of what the
// machine supports.
type Settings struct {
	Desktop bool
	Sound   bool
	Bell    bool
}

// Beep parameters for the sound cue.
const (
	BeepFrequency = 440
	BeepDuration  = 200 * time.Millisecond
)

// ProbeOption configures Probe.
type ProbeOption func(*prober)

type prober struct {
	out       *os.File
	printFn   PrintFunc
	lookPath  func(string) (string, error)
	openAudio func(*logger.Logger) (domain.Cue, error)
}

// WithOutput sets the terminal the reminder runs on. Defaults to os.Stdout.
func WithOutput(f *os.File) ProbeOption {
	return func(p *prober) {
		p.out = f
	}
}

// WithPrintFunc routes terminal notifications through fn, for example
// into the interactive UI.
func WithPrintFunc(fn PrintFunc) ProbeOption {
	return func(p *prober) {
		p.printFn = fn
	}
}

// Probe checks once which capabilities are usable.
func Probe(s Settings, log *logger.Logger, opts ...ProbeOption) Capabilities {
	p := &prober{
		out:       os.Stdout,
		lookPath:  exec.LookPath,
		openAudio: openBeep,
	}
	for _, opt := range opts {
		opt(p)
	}

	var caps Capabilities
	tty := isTerminal(p.out)

	if s.Desktop {
		if bin, err := p.lookPath("notify-send"); err == nil {
			caps.Notifications = NewDesktopPresenter(bin, nil, log.Named("desktop"))
			log.Debug("notifications: desktop via %s", bin)
		}
	}
	if caps.Notifications == nil && tty {
		printFn := p.printFn
		if printFn == nil {
			out := p.out
			printFn = func(format string, a ...interface{}) {
				out.WriteString(sprintfln(format, a...))
			}
		}
		caps.Notifications = NewTerminalPresenter(printFn, log.Named("terminal"))
		log.Debug("notifications: terminal")
	}
	if caps.Notifications == nil {
		log.Info("notifications unavailable: no desktop daemon and no terminal")
	}

	if s.Sound {
		if cue, err := p.openAudio(log.Named("audio")); err == nil {
			caps.Sound = cue
		} else {
			log.Debug("sound cue unavailable: %v", err)
		}
	}

	if s.Bell && tty {
		caps.Haptics = NewBellCue(p.out)
	}

	return caps
}

func openBeep(log *logger.Logger) (domain.Cue, error) {
	player, err := audio.NewPlayer(log)
	if err != nil {
		return nil, err
	}
	return audio.NewBeep(player, BeepFrequency, BeepDuration), nil
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
