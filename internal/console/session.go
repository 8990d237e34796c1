package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/meditime/internal/app"
	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// Output is where the session writes. display.UI satisfies it.
type Output interface {
	PrintInfo(text string)
	PrintHint(text string)
	PrintUrgent(text string)
}

// historyShown caps how many doses the history command prints.
const historyShown = 10

// Session runs the interactive prompt: it reads lines, parses them into
// intents and acts on the application.
type Session struct {
	app    *app.App
	parser domain.IntentParser
	out    Output
	input  <-chan string
	log    *logger.Logger
}

// NewSession reads commands from input and writes to out.
func NewSession(a *app.App, parser domain.IntentParser, out Output, input <-chan string, log *logger.Logger) *Session {
	return &Session{app: a, parser: parser, out: out, input: input, log: log}
}

// Run handles input until the user quits, input closes or ctx ends.
func (s *Session) Run(ctx context.Context) {
	s.showNext()
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-s.input:
			if !ok {
				return
			}
			if !s.handleLine(ctx, line) {
				return
			}
		}
	}
}

// handleLine reports whether the session should keep going.
func (s *Session) handleLine(ctx context.Context, line string) bool {
	intent, err := s.parser.Parse(ctx, line)
	if err != nil {
		s.log.Error("parsing input: %v", err)
		return true
	}
	s.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
	return s.handleIntent(ctx, intent)
}

func (s *Session) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentList:
		s.list(intent.Payload)
	case domain.IntentNext:
		s.showNext()
	case domain.IntentTaken:
		s.taken(ctx, intent.Payload)
	case domain.IntentDelete:
		s.remove(ctx, intent.Payload)
	case domain.IntentHistory:
		s.history(intent.Payload)
	case domain.IntentEnable:
		s.enable(ctx)
	case domain.IntentRefresh:
		s.app.Reminders.Rebuild()
		s.out.PrintHint(fmt.Sprintf("Schedule rebuilt: %d reminder(s) armed.", len(s.app.Reminders.Armed())))
	case domain.IntentHelp:
		for _, l := range strings.Split(Help, "\n") {
			s.out.PrintHint(l)
		}
	case domain.IntentQuit:
		s.out.PrintHint("Bye. Reminders stop when meditime exits.")
		return false
	default:
		s.out.PrintHint(fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", intent.Payload))
	}
	return true
}

func (s *Session) list(query string) {
	meds := s.app.Medicines.Search(query)
	all := s.app.Medicines.List()
	if len(meds) == 0 {
		if query == "" {
			s.out.PrintHint("No medicines yet. Add one with `meditime add`.")
		} else {
			s.out.PrintHint(fmt.Sprintf("Nothing matches %q.", query))
		}
		return
	}
	for _, m := range meds {
		line := fmt.Sprintf("%d. %s", position(all, m.ID), m.Name)
		if m.Dosage != "" {
			line += " · " + m.Dosage
		}
		line += fmt.Sprintf("  %s  %s", strings.Join(m.Times, ", "), m.ScheduleLabel())
		s.out.PrintInfo(line)
	}
}

// position is the 1-based index of id in the full list, the number
// accepted as a reference.
func position(meds []domain.Medicine, id string) int {
	for i, m := range meds {
		if m.ID == id {
			return i + 1
		}
	}
	return 0
}

func (s *Session) showNext() {
	next := s.app.NextDue()
	if next == nil {
		s.out.PrintHint("No upcoming doses.")
		return
	}
	s.out.PrintInfo(fmt.Sprintf("Next: %s at %s (%s)", next.Name, next.Time, next.Message))
}

func (s *Session) taken(ctx context.Context, ref string) {
	m, err := s.app.Medicines.Resolve(ref)
	if err != nil {
		s.out.PrintUrgent(err.Error())
		return
	}
	m, err = s.app.Medicines.MarkTaken(ctx, m.ID)
	if err != nil {
		s.out.PrintUrgent(err.Error())
		return
	}
	s.out.PrintInfo(fmt.Sprintf("✓ %s taken at %s", m.Name, m.History[0].Time().Format("15:04")))
}

func (s *Session) remove(ctx context.Context, ref string) {
	m, err := s.app.Medicines.Resolve(ref)
	if err != nil {
		s.out.PrintUrgent(err.Error())
		return
	}
	ok, err := s.Confirm(ctx, fmt.Sprintf("Delete %s?", m.Name))
	if err != nil || !ok {
		s.out.PrintHint("Kept.")
		return
	}
	if err := s.app.Medicines.Delete(ctx, m.ID); err != nil {
		s.out.PrintUrgent(err.Error())
		return
	}
	s.out.PrintInfo(fmt.Sprintf("Deleted %s.", m.Name))
}

func (s *Session) history(ref string) {
	m, err := s.app.Medicines.Resolve(ref)
	if err != nil {
		s.out.PrintUrgent(err.Error())
		return
	}
	if len(m.History) == 0 {
		s.out.PrintHint(fmt.Sprintf("No doses of %s recorded yet.", m.Name))
		return
	}
	s.out.PrintInfo(fmt.Sprintf("%s, last %d dose(s):", m.Name, min(len(m.History), historyShown)))
	for i, e := range m.History {
		if i == historyShown {
			break
		}
		s.out.PrintHint(e.Time().Format("Mon Jan 2 15:04"))
	}
}

func (s *Session) enable(ctx context.Context) {
	switch s.app.Notifier.RequestPermission(ctx) {
	case domain.PermissionGranted:
		s.out.PrintInfo("Notifications enabled.")
	default:
		if !s.app.Notifier.Available() {
			s.out.PrintUrgent("Notifications are unavailable on this system.")
			return
		}
		s.out.PrintUrgent("Notifications are blocked. Reminders will not be shown.")
	}
}

// Confirm asks a yes/no question at the prompt and waits for the next
// line. It satisfies domain.Prompter for use while the session runs.
func (s *Session) Confirm(ctx context.Context, question string) (bool, error) {
	s.out.PrintInfo(question + " (y/n)")
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case line, ok := <-s.input:
		if !ok {
			return false, fmt.Errorf("input closed")
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	}
}
