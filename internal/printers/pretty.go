// Package printers renders medicines, history and status for the
// command line.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/hammamikhairi/meditime/internal/domain"
)

// HistoryLayout is how take events are printed.
const HistoryLayout = "Mon Jan 2 15:04"

// PrettyPrint writes colored, tabular output.
type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
}

// New prints to color.Output, which handles Windows consoles and
// respects NO_COLOR.
func New(showID bool) *PrettyPrint {
	return &PrettyPrint{Out: color.Output, ShowID: showID}
}

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	idStyle = color.New(color.FgHiYellow, color.Italic, color.Faint)
	okStyle = color.New(color.FgGreen)
	due     = color.New(color.FgCyan, color.Bold)
)

// Title prints an underlined heading with an entry count.
func (pp *PrettyPrint) Title(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprint(pp.Out, title)
	switch count {
	case 1:
		_, _ = faint.Fprintf(pp.Out, " - %d medicine\n", count)
	default:
		_, _ = faint.Fprintf(pp.Out, " - %d medicines\n", count)
	}
}

// Medicines prints the list as a table. Row numbers are the 1-based
// positions accepted wherever a medicine reference is expected.
func (pp *PrettyPrint) Medicines(meds []domain.Medicine) {
	if len(meds) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " none\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.Wrap = true

	header := []interface{}{bold.Sprint("#")}
	if pp.ShowID {
		header = append(header, bold.Sprint("ID"))
	}
	header = append(header, bold.Sprint("Name"), bold.Sprint("Dosage"), bold.Sprint("Times"), bold.Sprint("Days"), bold.Sprint("Last taken"))
	tbl.AddRow(header...)

	for i, m := range meds {
		row := []interface{}{strconv.Itoa(i + 1)}
		if pp.ShowID {
			row = append(row, idStyle.Sprint(m.ID))
		}
		row = append(row, m.Name, m.Dosage, strings.Join(m.Times, " "), m.ScheduleLabel(), lastTaken(m))
		tbl.AddRow(row...)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.Out, tbl)
}

func lastTaken(m domain.Medicine) string {
	if len(m.History) == 0 {
		return faint.Sprint("never")
	}
	return m.History[0].Time().Format(HistoryLayout)
}

// Medicine prints one medicine in detail.
func (pp *PrettyPrint) Medicine(m domain.Medicine) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Name"), m.Name)
	if pp.ShowID {
		tbl.AddRow(bold.Sprint("ID"), idStyle.Sprint(m.ID))
	}
	if m.Dosage != "" {
		tbl.AddRow(bold.Sprint("Dosage"), m.Dosage)
	}
	if m.Notes != "" {
		tbl.AddRow(bold.Sprint("Notes"), m.Notes)
	}
	tbl.AddRow(bold.Sprint("Times"), strings.Join(m.Times, ", "))
	tbl.AddRow(bold.Sprint("Days"), m.ScheduleLabel())
	tbl.AddRow(bold.Sprint("Alerts"), alerts(m))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

func alerts(m domain.Medicine) string {
	var parts []string
	if m.Sound {
		parts = append(parts, "sound")
	}
	if m.Vibrate {
		parts = append(parts, "vibrate")
	}
	if len(parts) == 0 {
		return "silent"
	}
	return strings.Join(parts, ", ")
}

// History prints the take events of m, newest first.
func (pp *PrettyPrint) History(m domain.Medicine) {
	_, _ = bold.Fprintf(pp.Out, "%s", m.Name)
	_, _ = faint.Fprintf(pp.Out, " - %d dose(s) recorded\n", len(m.History))
	if len(m.History) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " none\n")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	for i, e := range m.History {
		tbl.AddRow(faint.Sprintf("%2d", i+1), e.Time().Format(HistoryLayout))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

// Taken confirms a recorded dose.
func (pp *PrettyPrint) Taken(m domain.Medicine, at time.Time) {
	_, _ = okStyle.Fprint(pp.Out, "✓ ")
	_, _ = fmt.Fprintf(pp.Out, "%s taken at %s\n", m.Name, at.Format("15:04"))
}

// NextDue prints the next-due banner, or a hint when nothing is due.
func (pp *PrettyPrint) NextDue(n *domain.NextDue) {
	if n == nil {
		_, _ = faint.Fprintln(pp.Out, "No upcoming doses.")
		return
	}
	_, _ = fmt.Fprint(pp.Out, "Next: ")
	_, _ = due.Fprintf(pp.Out, "%s at %s", n.Name, n.Time)
	_, _ = faint.Fprintf(pp.Out, " (%s)\n", n.Message)
}

// Permission prints the notification state.
func (pp *PrettyPrint) Permission(p domain.Permission, available bool) {
	switch {
	case !available:
		_, _ = faint.Fprintln(pp.Out, "Notifications are unavailable on this system.")
	case p == domain.PermissionGranted:
		_, _ = okStyle.Fprintln(pp.Out, "Notifications are enabled.")
	case p == domain.PermissionDenied:
		_, _ = color.New(color.FgRed).Fprintln(pp.Out, "Notifications are blocked.")
	default:
		_, _ = fmt.Fprintln(pp.Out, "Notifications are not enabled yet. Run `meditime notifications enable`.")
	}
}

// JSON writes v as indented JSON.
func JSON(out io.Writer, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}
