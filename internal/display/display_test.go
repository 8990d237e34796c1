package display

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/meditime/internal/domain"
)

func TestFocusRefreshesStatusAndCallsBack(t *testing.T) {
	focused := 0
	status := Status{
		Next:       &domain.NextDue{Name: "Aspirin", Time: "09:00", Message: "Due in 5 minutes"},
		Permission: domain.PermissionGranted,
		Available:  true,
	}
	u := NewUI(func() Status { return status }, func() { focused++ })
	m := u.newModel()

	next, cmd := m.Update(tea.FocusMsg{})
	if cmd == nil {
		t.Fatal("expected a command running the focus callback")
	}
	cmd()
	if focused != 1 {
		t.Fatalf("expected focus callback once, got %d", focused)
	}

	bar := next.(model).renderBar()
	for _, want := range []string{"Aspirin at 09:00", "Due in 5 minutes", "notifications on"} {
		if !strings.Contains(bar, want) {
			t.Fatalf("expected %q in bar %q", want, bar)
		}
	}
	if title := next.(model).titleStr(); title != "meditime: Aspirin at 09:00" {
		t.Fatalf("unexpected title %q", title)
	}
}

func TestBarWithoutDoses(t *testing.T) {
	m := NewUI(nil, nil).newModel()
	m.status = Status{Permission: domain.PermissionDefault, Available: true}

	bar := m.renderBar()
	if !strings.Contains(bar, "No upcoming doses") || !strings.Contains(bar, "type enable") {
		t.Fatalf("unexpected bar %q", bar)
	}

	m.status.Available = false
	if !strings.Contains(m.renderBar(), "notifications unavailable") {
		t.Fatal("expected unavailable state")
	}

	_, cmd := m.Update(tea.FocusMsg{})
	if cmd != nil {
		t.Fatal("expected no command without a focus callback")
	}
}

func TestRenderBannerCentres(t *testing.T) {
	out := renderBanner(100, "take your meds")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	last := lines[len(lines)-1]
	if strings.TrimSpace(last) != "take your meds" {
		t.Fatalf("expected tagline last, got %q", last)
	}
	if pad := len(last) - len(strings.TrimLeft(last, " ")); pad != (100-len("take your meds"))/2 {
		t.Fatalf("tagline not centred: %d spaces", pad)
	}
}
