package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/app"
	"github.com/hammamikhairi/meditime/internal/notify"
	"github.com/hammamikhairi/meditime/internal/printers"
)

func addNotifications(topLevel *cobra.Command, ro *RootOptions) {
	cmd := &cobra.Command{
		Use:       "notifications [enable|status]",
		Aliases:   []string{"notify"},
		Short:     "Enable reminder notifications or show their state.",
		ValidArgs: []string{"enable", "status"},
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return err
			}
			return cobra.OnlyValidArgs(cmd, args)
		},
		Example: `
meditime notifications enable
meditime notifications
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ro.open(cmd.Context(), true,
				app.WithPrompter(notify.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())))
			if err != nil {
				return err
			}
			defer a.Close()

			pp := printers.New(false)
			pp.Out = cmd.OutOrStdout()

			if len(args) == 1 && args[0] == "enable" {
				pp.Permission(a.Notifier.RequestPermission(cmd.Context()), a.Notifier.Available())
				return nil
			}
			pp.Permission(a.Notifier.Permission(cmd.Context()), a.Notifier.Available())
			if a.Config.File != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "config: %s\n", a.Config.File)
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
