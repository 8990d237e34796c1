package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/printers"
)

func addList(topLevel *cobra.Command, ro *RootOptions) {
	oo := &OutputOptions{}
	showID := false

	cmd := &cobra.Command{
		Use:     "list [QUERY]",
		Aliases: []string{"ls"},
		Short:   "List medicines, optionally filtered.",
		Long: `List medicines. QUERY filters by name, notes or dosing time,
case-insensitively.`,
		Example: `
meditime list
meditime list vitamin
meditime list 08: --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ro.open(cmd.Context(), false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer a.Close()

			meds := a.Medicines.Search(strings.Join(args, " "))
			if oo.JSON {
				if meds == nil {
					meds = []domain.Medicine{}
				}
				return printers.JSON(cmd.OutOrStdout(), meds)
			}
			pp := printers.New(showID)
			pp.Out = cmd.OutOrStdout()
			pp.Title("Medicines", len(meds))
			pp.Medicines(meds)
			return nil
		},
	}

	addOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&showID, "ids", "k", false, "Show medicine ids.")
	topLevel.AddCommand(cmd)
}
