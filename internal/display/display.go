// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a status bar showing the next due dose and the
// notification state, and an input prompt at the bottom of the
// terminal. All application output is printed above the rendered area
// via Program.Println / Printf, so reminders arriving from timer
// goroutines never garble the display.
package display

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/meditime/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	dueSoonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	dueNowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	idleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	reminderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentOutputStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5"))

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// Prompt is shown in front of the input line.
const Prompt = "meditime> "

// Status is what the bar shows. It is polled once a second.
type Status struct {
	Next       *domain.NextDue
	Permission domain.Permission
	// Available is false when no notification channel exists.
	Available bool
}

// StatusFunc reports the current status.
type StatusFunc func() Status

// ── UI ───────────────────────────────────────────────────────────

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may safely
// call [UI.Println], [UI.Printf], and read from [UI.InputChan] at any
// time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	status  StatusFunc
	onFocus func()
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	done    atomic.Bool
}

// NewUI creates the display. onFocus runs whenever the terminal regains
// focus and may be nil. Call Run() to start.
func NewUI(status StatusFunc, onFocus func()) *UI {
	return &UI{
		status:  status,
		onFocus: onFocus,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe. Falls back to
// fmt.Println before the program starts and after it ends.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
// Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// ── Styled print helpers ─────────────────────────────────────────

// PrintInfo prints a regular output line.
func (u *UI) PrintInfo(text string) {
	u.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintReminder prints a due reminder.
func (u *UI) PrintReminder(title, body string) {
	u.Println(reminderStyle.Render("  "+title) + "  " + secondaryStyle.Render(body))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("meditime") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	u.program = tea.NewProgram(u.newModel(), tea.WithReportFocus())
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

func (u *UI) newModel() model {
	ti := textinput.New()
	// Plain-text prompt: styled prompts add ANSI bytes that break the
	// textinput width math for long input.
	ti.Prompt = Prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60 // updated on first WindowSizeMsg

	return model{
		statusFn: u.status,
		onFocus:  u.onFocus,
		input:    ti,
		inputCh:  u.inputCh,
		readyCh:  u.readyCh,
		echoFn:   u.PrintUserInput,
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	statusFn StatusFunc
	onFocus  func()
	input    textinput.Model
	inputCh  chan<- string
	readyCh  chan struct{}
	echoFn   func(string) // prints user input into scrollback
	status   Status
	width    int
}

type tickMsg time.Time

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Println doesn't block inside Update.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.FocusMsg:
		m.refreshStatus()
		if m.onFocus == nil {
			return m, nil
		}
		onFocus := m.onFocus
		return m, func() tea.Msg {
			onFocus()
			return nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(Prompt) {
			m.input.Width = msg.Width - len(Prompt)
		}
		return m, nil

	case tickMsg:
		m.refreshStatus()
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(m.titleStr()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refreshStatus() {
	if m.statusFn != nil {
		m.status = m.statusFn()
	}
}

func (m model) titleStr() string {
	if n := m.status.Next; n != nil {
		return fmt.Sprintf("meditime: %s at %s", n.Name, n.Time)
	}
	return "meditime"
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.renderBar())
	b.WriteByte('\n')
	// Blank line before prompt for visual separation.
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	var next string
	if n := m.status.Next; n != nil {
		style := dueSoonStyle
		if n.Message == domain.DueMessage(0) {
			style = dueNowStyle
		}
		next = labelStyle.Render("Next: ") + style.Render(fmt.Sprintf("%s at %s · %s", n.Name, n.Time, n.Message))
	} else {
		next = idleStyle.Render("No upcoming doses")
	}

	content := " " + next + sepStyle.Render("  │  ") + renderPermission(m.status) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

func renderPermission(s Status) string {
	switch {
	case !s.Available:
		return idleStyle.Render("notifications unavailable")
	case s.Permission == domain.PermissionGranted:
		return labelStyle.Render("notifications on")
	case s.Permission == domain.PermissionDenied:
		return urgentOutputStyle.Render("notifications blocked")
	default:
		return idleStyle.Render("notifications off (type enable)")
	}
}
