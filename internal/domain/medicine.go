// Package domain defines the core types and interfaces for the reminder.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxHistory caps the number of take events kept per medicine.
const MaxHistory = 50

// Recurrence selects the days a medicine's times apply to.
type Recurrence string

const (
	RecurEveryday Recurrence = "everyday"
	RecurCustom   Recurrence = "custom"
)

// Medicine is a registered medicine with its dosing schedule.
// The JSON shape is the persisted blob format.
type Medicine struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Dosage     string      `json:"dosage"`
	Notes      string      `json:"notes"`
	Times      []string    `json:"times"`
	Days       Recurrence  `json:"days"`
	DaysCustom []int       `json:"daysCustom"`
	Sound      bool        `json:"sound"`
	Vibrate    bool        `json:"vibrate"`
	History    []TakeEvent `json:"history"`
}

// TakeEvent records one "taken" confirmation.
type TakeEvent struct {
	TS int64 `json:"ts"` // unix milliseconds
}

// NewTakeEvent stamps a take event at t.
func NewTakeEvent(t time.Time) TakeEvent {
	return TakeEvent{TS: t.UnixMilli()}
}

// Time returns the event instant in local time.
func (e TakeEvent) Time() time.Time {
	return time.UnixMilli(e.TS)
}

// AllWeekdays lists Sunday through Saturday.
var AllWeekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}

// AllowedDays returns the weekdays this medicine is due on. A custom rule
// with no days falls back to every day.
func (m *Medicine) AllowedDays() []time.Weekday {
	if m.Days != RecurCustom || len(m.DaysCustom) == 0 {
		return AllWeekdays
	}
	out := make([]time.Weekday, 0, len(m.DaysCustom))
	for _, d := range m.DaysCustom {
		if d >= 0 && d <= 6 {
			out = append(out, time.Weekday(d))
		}
	}
	if len(out) == 0 {
		return AllWeekdays
	}
	return out
}

// Valid reports whether the entry can be scheduled at all.
func (m *Medicine) Valid() bool {
	return m.ID != "" && len(m.Times) > 0
}

// RecordTaken prepends a take event, evicting the oldest beyond MaxHistory.
func (m *Medicine) RecordTaken(at time.Time) {
	h := make([]TakeEvent, 0, len(m.History)+1)
	h = append(h, NewTakeEvent(at))
	h = append(h, m.History...)
	if len(h) > MaxHistory {
		h = h[:MaxHistory]
	}
	m.History = h
}

// Clone returns a deep copy.
func (m Medicine) Clone() Medicine {
	m.Times = append([]string(nil), m.Times...)
	m.DaysCustom = append([]int(nil), m.DaysCustom...)
	m.History = append(make([]TakeEvent, 0, len(m.History)), m.History...)
	return m
}

// ScheduleLabel describes the recurrence for display.
func (m *Medicine) ScheduleLabel() string {
	if m.Days != RecurCustom || len(m.DaysCustom) == 0 || len(m.DaysCustom) == 7 {
		return "Every day"
	}
	names := make([]string, 0, len(m.DaysCustom))
	for _, d := range m.DaysCustom {
		if d >= 0 && d <= 6 {
			names = append(names, DayNames[d])
		}
	}
	return strings.Join(names, ", ")
}

// DayNames are the short weekday labels indexed 0 (Sunday) to 6.
var DayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ParseWeekday accepts an index ("0".."6") or a day name ("mon", "Monday").
func ParseWeekday(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalidInput, n)
		}
		return n, nil
	}
	for i, name := range DayNames {
		short := strings.ToLower(name)
		if s == short || (len(s) > 3 && strings.HasPrefix(strings.ToLower(time.Weekday(i).String()), s)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, s)
}

// TimeOfDay is a 24-hour wall clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// ParseTimeOfDay parses a strict HH:mm string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := hhmm.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q (want HH:mm)", ErrInvalidTime, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return TimeOfDay{Hour: h, Minute: min}, nil
}

// String renders HH:mm.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
