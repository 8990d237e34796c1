package commands

import (
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/printers"
)

func addTaken(topLevel *cobra.Command, ro *RootOptions) {
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:     "taken REF",
		Aliases: []string{"take", "took"},
		Short:   "Record that a dose was taken now.",
		Example: `
meditime taken 1
meditime taken Metformin
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ro.open(cmd.Context(), false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer a.Close()

			m, err := a.Medicines.Resolve(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			m, err = a.Medicines.MarkTaken(cmd.Context(), m.ID)
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(cmd.OutOrStdout(), m)
			}
			pp := printers.New(false)
			pp.Out = cmd.OutOrStdout()
			pp.Taken(m, m.History[0].Time())
			return nil
		},
	}

	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addHistory(topLevel *cobra.Command, ro *RootOptions) {
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:   "history REF",
		Short: "Show the recorded doses of a medicine, newest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ro.open(cmd.Context(), false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer a.Close()

			m, err := a.Medicines.Resolve(args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(cmd.OutOrStdout(), m.History)
			}
			pp := printers.New(false)
			pp.Out = cmd.OutOrStdout()
			pp.History(m)
			return nil
		},
	}

	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addNext(topLevel *cobra.Command, ro *RootOptions) {
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next due dose.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ro.open(cmd.Context(), false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer a.Close()

			next := a.NextDue()
			if oo.JSON {
				return printers.JSON(cmd.OutOrStdout(), next)
			}
			pp := printers.New(false)
			pp.Out = cmd.OutOrStdout()
			pp.NextDue(next)
			return nil
		},
	}

	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
