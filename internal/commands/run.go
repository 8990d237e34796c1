package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/app"
	"github.com/hammamikhairi/meditime/internal/console"
	"github.com/hammamikhairi/meditime/internal/display"
	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/notify"
)

func addRun(topLevel *cobra.Command, ro *RootOptions) {
	headless := false

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stay running and remind when doses are due.",
		Long: `Stay running and remind when doses are due. By default an
interactive prompt shows the next dose and accepts commands; --headless
only delivers reminders, for running under a service manager.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if headless {
				return runHeadless(ctx, ro)
			}
			return runInteractive(ctx, ro)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Run without the interactive prompt.")
	topLevel.AddCommand(cmd)
}

func runHeadless(ctx context.Context, ro *RootOptions) error {
	a, err := ro.open(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.Notifier.Permission(ctx) != domain.PermissionGranted {
		a.Log.Warn("notifications are not enabled; run `meditime notifications enable` first")
	}
	a.Log.Info("running headless with %d medicine(s)", len(a.Medicines.List()))
	return a.Run(ctx)
}

func runInteractive(ctx context.Context, ro *RootOptions) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		a    *app.App
		ui   *display.UI
		sess *console.Session
		err  error
	)
	a, err = ro.open(ctx, true,
		app.WithProbeOptions(notify.WithPrintFunc(func(format string, args ...interface{}) {
			ui.Printf(format, args...)
		})),
		app.WithPrompter(notify.PromptFunc(func(ctx context.Context, q string) (bool, error) {
			return sess.Confirm(ctx, q)
		})),
		app.WithActivation(func() {
			ui.PrintHint("Opened from a reminder.")
			a.Reminders.Rebuild()
		}),
	)
	if err != nil {
		return err
	}
	defer a.Close()

	ui = display.NewUI(func() display.Status {
		return display.Status{
			Next:       a.NextDue(),
			Permission: a.Notifier.Permission(ctx),
			Available:  a.Notifier.Available(),
		}
	}, a.Reminders.Rebuild)
	sess = console.NewSession(a, console.NewKeywordParser(a.Log.Named("console")), ui, ui.InputChan(), a.Log.Named("console"))

	fmt.Println(display.RenderBanner("medicine reminders"))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	if a.Notifier.Permission(ctx) == domain.PermissionDefault && a.Notifier.Available() {
		fmt.Println(display.BannerStyle.Render("  Type 'enable' to turn on reminder notifications."))
	}
	fmt.Println()

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := a.Run(ctx); err != nil {
			a.Log.Error("reminder loop: %v", err)
		}
	}()

	go func() {
		ui.WaitReady()
		sess.Run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until the user quits.
	if err := ui.Run(); err != nil {
		a.Log.Error("display: %v", err)
	}
	cancel()
	<-runDone
	return nil
}
