package domain

import (
	"fmt"
	"strings"
	"time"
)

// Reminder is the payload handed to the notification layer when a due
// event fires.
type Reminder struct {
	Title   string
	Body    string
	Sound   bool
	Vibrate bool
	Tag     string
}

// DueEvent is one (medicine, time of day) pair resolved to an instant.
// Derived from the medicine list and never persisted.
type DueEvent struct {
	MedicineID   string
	MedicineName string
	TimeOfDay    string
	When         time.Time
	Reminder     Reminder
}

// NewDueEvent builds the event and its reminder text for m at tod.
func NewDueEvent(m *Medicine, tod string, when time.Time) DueEvent {
	return DueEvent{
		MedicineID:   m.ID,
		MedicineName: m.Name,
		TimeOfDay:    tod,
		When:         when,
		Reminder: Reminder{
			Title:   "Time to take: " + m.Name,
			Body:    reminderBody(m),
			Sound:   m.Sound,
			Vibrate: m.Vibrate,
			Tag:     DedupeTag(m.ID, tod),
		},
	}
}

// DedupeTag identifies a (medicine, time of day) pair.
func DedupeTag(medicineID, tod string) string {
	return medicineID + "-" + tod
}

func reminderBody(m *Medicine) string {
	var parts []string
	for _, p := range []string{m.Dosage, m.Notes} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Please take your medicine."
	}
	return strings.Join(parts, " • ")
}

// NextDue summarises the soonest upcoming dose.
type NextDue struct {
	Name    string `json:"name"`
	Time    string `json:"time"`
	Message string `json:"message"`
}

// DueMessage renders a minute delay as shown in the next-due banner.
func DueMessage(mins int) string {
	switch {
	case mins <= 0:
		return "Due now"
	case mins == 1:
		return "Due in 1 minute"
	default:
		return fmt.Sprintf("Due in %d minutes", mins)
	}
}
