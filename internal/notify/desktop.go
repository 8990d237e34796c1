package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

var _ domain.Presenter = (*DesktopPresenter)(nil)

// AppName is the application name shown by the notification daemon.
const AppName = "meditime"

// CommandFunc runs an external program and returns its stdout.
type CommandFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// DesktopPresenter posts notifications through notify-send. Presentations
// with the same tag replace each other on daemons that honour the
// synchronous/stack-tag hints.
type DesktopPresenter struct {
	bin string
	run CommandFunc
	log *logger.Logger
}

// NewDesktopPresenter creates a presenter calling the notify-send binary
// at bin. A nil run uses os/exec.
func NewDesktopPresenter(bin string, run CommandFunc, log *logger.Logger) *DesktopPresenter {
	if run == nil {
		run = runCommand
	}
	return &DesktopPresenter{bin: bin, run: run, log: log}
}

// Present posts n. When n has an activation handler the call returns as
// soon as the notification is posted and a goroutine waits for the click.
func (p *DesktopPresenter) Present(ctx context.Context, n domain.Notification) error {
	args := desktopArgs(n)
	if n.OnActivate == nil {
		if _, err := p.run(ctx, p.bin, args...); err != nil {
			return fmt.Errorf("notify-send: %w", err)
		}
		return nil
	}

	go func() {
		out, err := p.run(context.WithoutCancel(ctx), p.bin, args...)
		if err != nil {
			p.log.Debug("notify-send %s: %v", n.Tag, err)
			return
		}
		if strings.TrimSpace(string(out)) == "default" {
			p.log.Debug("notification %s activated", n.Tag)
			n.OnActivate()
		}
	}()
	return nil
}

func desktopArgs(n domain.Notification) []string {
	args := []string{"--app-name=" + AppName}
	if n.Tag != "" {
		args = append(args,
			"--hint=string:x-canonical-private-synchronous:"+n.Tag,
			"--hint=string:x-dunst-stack-tag:"+n.Tag,
		)
	}
	if n.Silent {
		args = append(args, "--hint=boolean:suppress-sound:true")
	}
	if n.OnActivate != nil {
		args = append(args, "--action=default=Open", "--wait")
	}
	return append(args, "--", n.Title, n.Body)
}
