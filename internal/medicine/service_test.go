package medicine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
	"github.com/hammamikhairi/meditime/internal/storage"
)

func setupService(t *testing.T) (*Service, *storage.MemoryStore, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	n := 0
	svc := New(context.Background(), store, log, WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))
	return svc, store, context.Background()
}

func input(name string, times ...string) Input {
	in := DefaultInput()
	in.Name = name
	if len(times) > 0 {
		in.Times = times
	}
	return in
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		in        Input
		wantTimes []string
		wantDays  []int
		wantErr   bool
	}{
		{"dedupes and sorts times", Input{Name: "A", Times: []string{"20:00", "08:00", "08:00"}}, []string{"08:00", "20:00"}, []int{0, 1, 2, 3, 4, 5, 6}, false},
		{"custom days sorted", Input{Name: "A", Times: []string{"09:00"}, Days: domain.RecurCustom, DaysCustom: []int{5, 1, 1}}, []string{"09:00"}, []int{1, 5}, false},
		{"blank name", Input{Name: "   ", Times: []string{"09:00"}}, nil, nil, true},
		{"no times", Input{Name: "A"}, nil, nil, true},
		{"blank times only", Input{Name: "A", Times: []string{" "}}, nil, nil, true},
		{"malformed time", Input{Name: "A", Times: []string{"9am"}}, nil, nil, true},
		{"weekday out of range", Input{Name: "A", Times: []string{"09:00"}, Days: domain.RecurCustom, DaysCustom: []int{7}}, nil, nil, true},
		{"custom with no days", Input{Name: "A", Times: []string{"09:00"}, Days: domain.RecurCustom}, nil, nil, true},
		{"unknown recurrence", Input{Name: "A", Times: []string{"09:00"}, Days: "weekly"}, nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fmt.Sprint(got.Times) != fmt.Sprint(tt.wantTimes) {
				t.Fatalf("expected times %v, got %v", tt.wantTimes, got.Times)
			}
			if fmt.Sprint(got.DaysCustom) != fmt.Sprint(tt.wantDays) {
				t.Fatalf("expected days %v, got %v", tt.wantDays, got.DaysCustom)
			}
		})
	}
}

func TestCreatePersistsAndNotifies(t *testing.T) {
	svc, store, ctx := setupService(t)

	var mu sync.Mutex
	var seen [][]domain.Medicine
	svc.Subscribe(func(meds []domain.Medicine) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, meds)
	})

	in := input("  Metformin ", "20:00", "08:00", "08:00")
	in.Dosage = " 500mg "
	m, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.ID != "id-1" || m.Name != "Metformin" || m.Dosage != "500mg" {
		t.Fatalf("unexpected medicine %+v", m)
	}
	if fmt.Sprint(m.Times) != "[08:00 20:00]" {
		t.Fatalf("expected normalized times, got %v", m.Times)
	}
	if m.History == nil || len(m.History) != 0 {
		t.Fatalf("expected empty history, got %#v", m.History)
	}

	if got := store.Load(ctx); len(got) != 1 || got[0].ID != "id-1" {
		t.Fatalf("expected medicine persisted, got %+v", got)
	}
	if len(seen) != 1 || len(seen[0]) != 1 {
		t.Fatalf("expected one change notification with one medicine, got %v", seen)
	}
}

func TestCreateRejectsInvalidWithoutSideEffects(t *testing.T) {
	svc, store, ctx := setupService(t)
	notified := false
	svc.Subscribe(func([]domain.Medicine) { notified = true })

	if _, err := svc.Create(ctx, Input{Name: "", Times: []string{"09:00"}}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(svc.List()) != 0 || len(store.Load(ctx)) != 0 || notified {
		t.Fatal("invalid input must not mutate, persist, or notify")
	}
}

func TestUpdateKeepsIDAndHistory(t *testing.T) {
	svc, _, ctx := setupService(t)

	m, err := svc.Create(ctx, input("Aspirin", "09:00"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.MarkTaken(ctx, m.ID); err != nil {
		t.Fatalf("mark taken: %v", err)
	}

	in := InputFrom(m)
	in.Name = "Aspirin Forte"
	in.Times = []string{"21:00", "07:00"}
	updated, err := svc.Update(ctx, m.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != m.ID || updated.Name != "Aspirin Forte" || len(updated.History) != 1 {
		t.Fatalf("unexpected update result %+v", updated)
	}
	if fmt.Sprint(updated.Times) != "[07:00 21:00]" {
		t.Fatalf("expected sorted times, got %v", updated.Times)
	}

	if _, err := svc.Update(ctx, "missing", in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, store, ctx := setupService(t)

	a, _ := svc.Create(ctx, input("A"))
	b, _ := svc.Create(ctx, input("B"))

	if err := svc.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list := svc.List()
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("expected only B left, got %+v", list)
	}
	if len(store.Load(ctx)) != 1 {
		t.Fatal("delete not persisted")
	}
	if err := svc.Delete(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestMarkTakenCapsHistory(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	clock := time.Date(2026, 3, 4, 8, 0, 0, 0, time.Local)
	svc := New(context.Background(), store, log, WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}))
	ctx := context.Background()

	m, err := svc.Create(ctx, input("Aspirin"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var last domain.Medicine
	for i := 0; i < domain.MaxHistory+1; i++ {
		last, err = svc.MarkTaken(ctx, m.ID)
		if err != nil {
			t.Fatalf("mark taken %d: %v", i, err)
		}
	}

	if len(last.History) != domain.MaxHistory {
		t.Fatalf("expected %d entries, got %d", domain.MaxHistory, len(last.History))
	}
	if !last.History[0].Time().Equal(clock) {
		t.Fatalf("expected newest entry first (%v), got %v", clock, last.History[0].Time())
	}
	if last.History[0].TS <= last.History[1].TS {
		t.Fatal("history not ordered newest first")
	}
}

func TestSearch(t *testing.T) {
	svc, _, ctx := setupService(t)

	night := input("Melatonin", "22:00")
	night.Notes = "Take at night"
	if _, err := svc.Create(ctx, night); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, input("Vitamin D", "08:00")); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"  ", 2},
		{"vita", 1},
		{"NIGHT", 1},
		{"08:00", 1},
		{"22", 1},
		{"ibuprofen", 0},
	}
	for _, tt := range tests {
		if got := svc.Search(tt.query); len(got) != tt.want {
			t.Fatalf("Search(%q): expected %d, got %d", tt.query, tt.want, len(got))
		}
	}
}

func TestResolve(t *testing.T) {
	svc, _, ctx := setupService(t)
	a, _ := svc.Create(ctx, input("Aspirin"))
	b, _ := svc.Create(ctx, input("Zinc"))

	tests := []struct {
		ref     string
		wantID  string
		wantErr error
	}{
		{"1", a.ID, nil},
		{"2", b.ID, nil},
		{"id-2", b.ID, nil},
		{"zinc", b.ID, nil},
		{"id-", "", domain.ErrAmbiguous},
		{"ibuprofen", "", domain.ErrNotFound},
		{"", "", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		got, err := svc.Resolve(tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resolve(%q): expected %v, got %v", tt.ref, tt.wantErr, err)
			}
			continue
		}
		if err != nil || got.ID != tt.wantID {
			t.Fatalf("Resolve(%q) = %s, %v; want %s", tt.ref, got.ID, err, tt.wantID)
		}
	}
}

type failingStore struct {
	*storage.MemoryStore
}

func (f failingStore) Save(context.Context, []domain.Medicine) error {
	return errors.New("disk full")
}

func TestFailedSaveLeavesListUntouched(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	svc := New(context.Background(), failingStore{storage.NewMemoryStore(log)}, log)
	notified := false
	svc.Subscribe(func([]domain.Medicine) { notified = true })

	if _, err := svc.Create(context.Background(), input("A")); err == nil {
		t.Fatal("expected save error")
	}
	if len(svc.List()) != 0 || notified {
		t.Fatal("failed save must not change the list or notify")
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	svc, store, ctx := setupService(t)
	count := 0
	unsubscribe := svc.Subscribe(func([]domain.Medicine) { count++ })

	if err := store.Save(ctx, []domain.Medicine{{ID: "ext", Name: "External", Times: []string{"10:00"}}}); err != nil {
		t.Fatalf("external save: %v", err)
	}
	svc.Reload(ctx)

	if list := svc.List(); len(list) != 1 || list[0].ID != "ext" {
		t.Fatalf("expected reloaded list, got %+v", list)
	}
	if count != 1 {
		t.Fatalf("expected one notification, got %d", count)
	}

	unsubscribe()
	svc.Reload(ctx)
	if count != 1 {
		t.Fatalf("unsubscribed listener still notified (%d)", count)
	}
}
