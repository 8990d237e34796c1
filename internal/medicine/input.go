package medicine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hammamikhairi/meditime/internal/domain"
)

// Input is the editable part of a medicine, as entered on the form.
type Input struct {
	Name       string
	Dosage     string
	Notes      string
	Times      []string
	Days       domain.Recurrence
	DaysCustom []int
	Sound      bool
	Vibrate    bool
}

// DefaultInput returns the values a blank form starts with.
func DefaultInput() Input {
	return Input{
		Times:      []string{"08:00", "20:00"},
		Days:       domain.RecurEveryday,
		DaysCustom: []int{0, 1, 2, 3, 4, 5, 6},
		Sound:      true,
		Vibrate:    true,
	}
}

// InputFrom copies the editable fields out of an existing medicine.
func InputFrom(m domain.Medicine) Input {
	return Input{
		Name:       m.Name,
		Dosage:     m.Dosage,
		Notes:      m.Notes,
		Times:      append([]string(nil), m.Times...),
		Days:       m.Days,
		DaysCustom: append([]int(nil), m.DaysCustom...),
		Sound:      m.Sound,
		Vibrate:    m.Vibrate,
	}
}

// Normalize validates the input and returns its canonical form: trimmed
// text, times deduplicated and sorted, weekdays deduplicated and sorted.
// Errors wrap domain.ErrInvalidInput and carry a message fit for the user.
func Normalize(in Input) (Input, error) {
	out := Input{
		Name:    strings.TrimSpace(in.Name),
		Dosage:  strings.TrimSpace(in.Dosage),
		Notes:   strings.TrimSpace(in.Notes),
		Sound:   in.Sound,
		Vibrate: in.Vibrate,
	}
	if out.Name == "" {
		return Input{}, fmt.Errorf("%w: please enter medicine name", domain.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(in.Times))
	for _, t := range in.Times {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, err := domain.ParseTimeOfDay(t); err != nil {
			return Input{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		if !seen[t] {
			seen[t] = true
			out.Times = append(out.Times, t)
		}
	}
	if len(out.Times) == 0 {
		return Input{}, fmt.Errorf("%w: add at least one time", domain.ErrInvalidInput)
	}
	sort.Strings(out.Times)

	switch in.Days {
	case domain.RecurEveryday, "":
		out.Days = domain.RecurEveryday
		out.DaysCustom = []int{0, 1, 2, 3, 4, 5, 6}
	case domain.RecurCustom:
		days, err := normalizeDays(in.DaysCustom)
		if err != nil {
			return Input{}, err
		}
		out.Days = domain.RecurCustom
		out.DaysCustom = days
	default:
		return Input{}, fmt.Errorf("%w: unknown recurrence %q", domain.ErrInvalidInput, in.Days)
	}
	return out, nil
}

func normalizeDays(days []int) ([]int, error) {
	var set [7]bool
	for _, d := range days {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range 0-6", domain.ErrInvalidInput, d)
		}
		set[d] = true
	}
	var out []int
	for d, ok := range set {
		if ok {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: pick at least one day", domain.ErrInvalidInput)
	}
	return out, nil
}

func (in Input) apply(m *domain.Medicine) {
	m.Name = in.Name
	m.Dosage = in.Dosage
	m.Notes = in.Notes
	m.Times = in.Times
	m.Days = in.Days
	m.DaysCustom = in.DaysCustom
	m.Sound = in.Sound
	m.Vibrate = in.Vibrate
}
