package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/medicine"
	"github.com/hammamikhairi/meditime/internal/printers"
)

func addAdd(topLevel *cobra.Command, ro *RootOptions) {
	mo := &MedicineOptions{}
	oo := &OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add NAME...",
		Short: "Add a medicine.",
		Example: `
meditime add Metformin --dosage 500mg --time 08:00 --time 20:00
meditime add Vitamin D --days mon,thu --notes "with breakfast"
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := ro.open(cmd.Context(), false)
			if err != nil {
				return oo.HandleError(err)
			}
			defer a.Close()

			in := medicine.DefaultInput()
			in.Name = strings.Join(args, " ")
			if err := mo.apply(cmd, &in); err != nil {
				return oo.HandleError(err)
			}
			m, err := a.Medicines.Create(cmd.Context(), in)
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(cmd.OutOrStdout(), m)
			}
			pp := printers.New(true)
			pp.Out = cmd.OutOrStdout()
			pp.Medicine(m)
			return nil
		},
	}

	addMedicineArgs(cmd, mo)
	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, ro *RootOptions) {
	mo := &MedicineOptions{}
	oo := &OutputOptions{}
	var name string

	cmd := &cobra.Command{
		Use:   "edit REF",
		Short: "Change a medicine. Only the flags given are changed.",
		Long: `Change a medicine. REF is the list number, the id (or a unique id
prefix) or the exact name. Only the flags given are changed; the id and
dose history are kept.`,
		Example: `
meditime edit 2 --time 07:30 --time 19:30
meditime edit Metformin --days every --sound=false
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
			in := medicine.InputFrom(m)
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if err := mo.apply(cmd, &in); err != nil {
				return oo.HandleError(err)
			}
			m, err = a.Medicines.Update(cmd.Context(), m.ID, in)
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printers.JSON(cmd.OutOrStdout(), m)
			}
			pp := printers.New(true)
			pp.Out = cmd.OutOrStdout()
			pp.Medicine(m)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name.")
	addMedicineArgs(cmd, mo)
	addOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
