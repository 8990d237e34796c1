package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/notify"
)

func addRemove(topLevel *cobra.Command, ro *RootOptions) {
	yes := false

	cmd := &cobra.Command{
		Use:     "rm REF",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a medicine.",
		Example: `
meditime rm 3
meditime rm Aspirin --yes
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ro.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.Close()

			m, err := a.Medicines.Resolve(args[0])
			if err != nil {
				return err
			}
			if !yes {
				p := notify.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
				ok, err := p.Confirm(cmd.Context(), fmt.Sprintf("Delete %s?", m.Name))
				if err != nil || !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}
			if err := a.Medicines.Delete(cmd.Context(), m.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", m.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation.")
	topLevel.AddCommand(cmd)
}
