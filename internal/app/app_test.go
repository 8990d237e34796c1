package app

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/meditime/internal/config"
	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
	"github.com/hammamikhairi/meditime/internal/medicine"
	"github.com/hammamikhairi/meditime/internal/notify"
	"github.com/hammamikhairi/meditime/internal/storage"
)

type mockPresenter struct {
	mu    sync.Mutex
	shown []domain.Notification
}

func (m *mockPresenter) Present(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, n)
	return nil
}

func (m *mockPresenter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.shown)
}

type yesPrompter struct{}

func (yesPrompter) Confirm(context.Context, string) (bool, error) { return true, nil }

// nineAM is 50ms before 09:00 on a fixed Wednesday.
var nineAM = time.Date(2026, 3, 4, 9, 0, 0, 0, time.Local).Add(-50 * time.Millisecond)

func setupApp(t *testing.T, presenter *mockPresenter) (*App, *storage.MemoryStore) {
	t.Helper()
	cfg := &config.Config{
		LogLevel:     logger.LevelOff,
		Horizon:      24 * time.Hour,
		Housekeeping: 0,
	}
	store := storage.NewMemoryStore(logger.New(logger.LevelOff, nil))
	a, err := New(context.Background(), cfg,
		WithStore(store),
		WithLogOutput(&bytes.Buffer{}),
		WithCapabilities(notify.Capabilities{Notifications: presenter}),
		WithPrompter(yesPrompter{}),
		WithClock(func() time.Time { return nineAM }),
	)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(a.Close)
	return a, store
}

func medInput(name string, times ...string) medicine.Input {
	in := medicine.DefaultInput()
	in.Name = name
	in.Times = times
	return in
}

func TestRemindersRebuildOnEveryChange(t *testing.T) {
	a, _ := setupApp(t, &mockPresenter{})
	ctx := context.Background()
	a.Reminders.Start()
	defer a.Reminders.Close()

	base := a.Reminders.Rebuilds()
	m, err := a.Medicines.Create(ctx, medInput("Aspirin", "21:00", "22:00"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(a.Reminders.Armed()) != 2 {
		t.Fatalf("expected 2 armed events, got %d", len(a.Reminders.Armed()))
	}

	in := medicine.InputFrom(m)
	in.Times = []string{"21:00"}
	if _, err := a.Medicines.Update(ctx, m.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(a.Reminders.Armed()) != 1 {
		t.Fatalf("expected 1 armed event after update, got %d", len(a.Reminders.Armed()))
	}

	if _, err := a.Medicines.MarkTaken(ctx, m.ID); err != nil {
		t.Fatalf("mark taken: %v", err)
	}
	if err := a.Medicines.Delete(ctx, m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(a.Reminders.Armed()) != 0 {
		t.Fatalf("expected nothing armed after delete, got %d", len(a.Reminders.Armed()))
	}

	if got := a.Reminders.Rebuilds() - base; got != 4 {
		t.Fatalf("expected 4 rebuilds, got %d", got)
	}
}

func TestReminderReachesPresenterWhenGranted(t *testing.T) {
	presenter := &mockPresenter{}
	a, _ := setupApp(t, presenter)
	ctx := context.Background()

	if p := a.Notifier.RequestPermission(ctx); p != domain.PermissionGranted {
		t.Fatalf("expected granted, got %s", p)
	}

	a.Reminders.Start()
	defer a.Reminders.Close()

	in := medInput("Aspirin", "09:00")
	in.Dosage = "100mg"
	if _, err := a.Medicines.Create(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if presenter.count() != 1 {
		t.Fatalf("expected one notification, got %d", presenter.count())
	}
	n := presenter.shown[0]
	if n.Title != "Time to take: Aspirin" || n.Body != "100mg" {
		t.Fatalf("unexpected notification %+v", n)
	}
}

func TestCloseDisarms(t *testing.T) {
	presenter := &mockPresenter{}
	a, store := setupApp(t, presenter)
	ctx := context.Background()
	store.SavePermission(ctx, domain.PermissionGranted)

	a.Reminders.Start()
	if _, err := a.Medicines.Create(ctx, medInput("Aspirin", "09:00")); err != nil {
		t.Fatalf("create: %v", err)
	}
	a.Reminders.Close()

	// Changes after Close must not re-arm.
	if _, err := a.Medicines.Create(ctx, medInput("Zinc", "09:00")); err != nil {
		t.Fatalf("create: %v", err)
	}

	time.Sleep(300 * time.Millisecond)
	if presenter.count() != 0 {
		t.Fatalf("expected no notifications after close, got %d", presenter.count())
	}
}

func TestFollowReloadsExternalWrites(t *testing.T) {
	a, store := setupApp(t, &mockPresenter{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.Reminders.Start()
	defer a.Reminders.Close()

	changes := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		a.Reminders.Follow(ctx, changes)
		close(done)
	}()

	store.Save(ctx, []domain.Medicine{{
		ID: "ext", Name: "External", Times: []string{"10:00"}, Days: domain.RecurEveryday,
	}})
	changes <- struct{}{}

	deadline := time.Now().Add(time.Second)
	for len(a.Reminders.Armed()) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("external write was not picked up")
		}
		time.Sleep(10 * time.Millisecond)
	}

	close(changes)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Follow did not return after channel closed")
	}
}

func TestNextDue(t *testing.T) {
	a, _ := setupApp(t, &mockPresenter{})
	ctx := context.Background()

	if a.NextDue() != nil {
		t.Fatal("expected nothing due with an empty list")
	}
	if _, err := a.Medicines.Create(ctx, medInput("Aspirin", "09:30")); err != nil {
		t.Fatalf("create: %v", err)
	}
	next := a.NextDue()
	if next == nil || next.Name != "Aspirin" || next.Time != "09:30" {
		t.Fatalf("unexpected next due %+v", next)
	}
	if next.Message != "Due in 30 minutes" {
		t.Fatalf("unexpected message %q", next.Message)
	}
}
