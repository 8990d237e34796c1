package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/medicine"
)

// MedicineOptions are the form fields of add and edit.
type MedicineOptions struct {
	Dosage  string
	Notes   string
	Times   []string
	Days    string
	Sound   bool
	Vibrate bool
}

func addMedicineArgs(cmd *cobra.Command, o *MedicineOptions) {
	cmd.Flags().StringVarP(&o.Dosage, "dosage", "d", "",
		`Dosage, e.g. "500mg".`)
	cmd.Flags().StringVarP(&o.Notes, "notes", "n", "",
		`Free text notes, e.g. "with food".`)
	cmd.Flags().StringSliceVarP(&o.Times, "time", "t", nil,
		"Dosing time as HH:mm. Repeat or comma-separate for several (default 08:00,20:00).")
	cmd.Flags().StringVar(&o.Days, "days", "every",
		`"every" or a list of weekdays, e.g. "mon,wed,fri" or "1,3,5" (0 is Sunday).`)
	cmd.Flags().BoolVar(&o.Sound, "sound", true,
		"Play a sound with the reminder.")
	cmd.Flags().BoolVar(&o.Vibrate, "vibrate", true,
		"Ring the terminal bell pattern with the reminder.")
}

// apply copies the flags the user set onto in. Flags left at their
// defaults keep in's value, so edit only changes what was asked.
func (o *MedicineOptions) apply(cmd *cobra.Command, in *medicine.Input) error {
	flags := cmd.Flags()
	if flags.Changed("dosage") {
		in.Dosage = o.Dosage
	}
	if flags.Changed("notes") {
		in.Notes = o.Notes
	}
	if flags.Changed("time") {
		in.Times = o.Times
	}
	if flags.Changed("days") {
		rec, days, err := parseDays(o.Days)
		if err != nil {
			return err
		}
		in.Days = rec
		in.DaysCustom = days
	}
	if flags.Changed("sound") {
		in.Sound = o.Sound
	}
	if flags.Changed("vibrate") {
		in.Vibrate = o.Vibrate
	}
	return nil
}

// parseDays reads the --days flag.
func parseDays(s string) (domain.Recurrence, []int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "every", "everyday", "daily", "all":
		return domain.RecurEveryday, nil, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := domain.ParseWeekday(part)
		if err != nil {
			return "", nil, err
		}
		days = append(days, d)
	}
	if len(days) == 0 {
		return "", nil, fmt.Errorf("%w: pick at least one day", domain.ErrInvalidInput)
	}
	return domain.RecurCustom, days, nil
}
