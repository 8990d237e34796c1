// Package medicine owns the authoritative medicine list: form validation,
// create/update/delete, "mark taken", search, and change notification.
package medicine

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// ChangeFunc receives the full list after every change.
type ChangeFunc func(meds []domain.Medicine)

// Option configures the service.
type Option func(*Service)

// WithClock replaces time.Now for take-event stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces uuid.NewString for new medicines.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// Service holds the medicine list and keeps the store in step with it.
// Every mutation runs validate, mutate, persist, notify, in that order,
// with no other mutation interleaved. Subscribers must not call mutating
// methods from inside their callback.
type Service struct {
	store domain.MedicineStore
	log   *logger.Logger
	now   func() time.Time
	newID func() string

	writeMu sync.Mutex // serialises whole mutation sequences

	mu        sync.RWMutex
	meds      []domain.Medicine
	listeners map[int]ChangeFunc
	nextSub   int
}

// New loads the current list from store and returns the service.
func New(ctx context.Context, store domain.MedicineStore, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:     store,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
		listeners: make(map[int]ChangeFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.meds = store.Load(ctx)
	s.log.Debug("loaded %d medicine(s)", len(s.meds))
	return s
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Service) Subscribe(fn ChangeFunc) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// List returns a copy of every medicine in insertion order.
func (s *Service) List() []domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.meds)
}

// Get returns the medicine with the given id.
func (s *Service) Get(id string) (domain.Medicine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := indexOf(s.meds, id); i >= 0 {
		return s.meds[i].Clone(), nil
	}
	return domain.Medicine{}, fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
}

// Search filters by a case-insensitive substring of the name, the notes,
// or any dosing time. An empty query matches everything.
func (s *Service) Search(query string) []domain.Medicine {
	q := strings.ToLower(strings.TrimSpace(query))
	all := s.List()
	if q == "" {
		return all
	}
	var out []domain.Medicine
	for _, m := range all {
		if matches(m, q) {
			out = append(out, m)
		}
	}
	return out
}

func matches(m domain.Medicine, q string) bool {
	if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Notes), q) {
		return true
	}
	for _, t := range m.Times {
		if strings.Contains(t, q) {
			return true
		}
	}
	return false
}

// Resolve finds a medicine from a user reference: a 1-based list position,
// an id or unique id prefix, or a case-insensitive exact name.
func (s *Service) Resolve(ref string) (domain.Medicine, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Medicine{}, fmt.Errorf("%w: medicine reference required", domain.ErrInvalidInput)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.meds) {
		return s.meds[n-1].Clone(), nil
	}

	var hits []int
	for i, m := range s.meds {
		if m.ID == ref {
			return m.Clone(), nil
		}
		if strings.HasPrefix(m.ID, ref) || strings.EqualFold(m.Name, ref) {
			hits = append(hits, i)
		}
	}
	switch len(hits) {
	case 0:
		return domain.Medicine{}, fmt.Errorf("medicine %q: %w", ref, domain.ErrNotFound)
	case 1:
		return s.meds[hits[0]].Clone(), nil
	default:
		return domain.Medicine{}, fmt.Errorf("%w: %q matches %d medicines", domain.ErrAmbiguous, ref, len(hits))
	}
}

// Create validates in and appends a new medicine with a fresh id and an
// empty history.
func (s *Service) Create(ctx context.Context, in Input) (domain.Medicine, error) {
	norm, err := Normalize(in)
	if err != nil {
		return domain.Medicine{}, err
	}

	m := domain.Medicine{ID: s.newID(), History: []domain.TakeEvent{}}
	norm.apply(&m)

	err = s.mutate(ctx, func(meds []domain.Medicine) ([]domain.Medicine, error) {
		return append(meds, m), nil
	})
	if err != nil {
		return domain.Medicine{}, err
	}
	s.log.Info("added %q (%s)", m.Name, strings.Join(m.Times, ", "))
	return m.Clone(), nil
}

// Update replaces the editable fields of the medicine with id. The id and
// history are kept.
func (s *Service) Update(ctx context.Context, id string, in Input) (domain.Medicine, error) {
	norm, err := Normalize(in)
	if err != nil {
		return domain.Medicine{}, err
	}

	var updated domain.Medicine
	err = s.mutate(ctx, func(meds []domain.Medicine) ([]domain.Medicine, error) {
		i := indexOf(meds, id)
		if i < 0 {
			return nil, fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
		}
		norm.apply(&meds[i])
		updated = meds[i].Clone()
		return meds, nil
	})
	if err != nil {
		return domain.Medicine{}, err
	}
	s.log.Info("updated %q", updated.Name)
	return updated, nil
}

// Delete removes the medicine with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	var name string
	err := s.mutate(ctx, func(meds []domain.Medicine) ([]domain.Medicine, error) {
		i := indexOf(meds, id)
		if i < 0 {
			return nil, fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
		}
		name = meds[i].Name
		return append(meds[:i], meds[i+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.log.Info("deleted %q", name)
	return nil
}

// MarkTaken prepends a take event stamped now, keeping at most
// domain.MaxHistory entries.
func (s *Service) MarkTaken(ctx context.Context, id string) (domain.Medicine, error) {
	var updated domain.Medicine
	err := s.mutate(ctx, func(meds []domain.Medicine) ([]domain.Medicine, error) {
		i := indexOf(meds, id)
		if i < 0 {
			return nil, fmt.Errorf("medicine %s: %w", id, domain.ErrNotFound)
		}
		meds[i].RecordTaken(s.now())
		updated = meds[i].Clone()
		return meds, nil
	})
	if err != nil {
		return domain.Medicine{}, err
	}
	s.log.Info("marked %q taken", updated.Name)
	return updated, nil
}

// Reload replaces the in-memory list with the store's content, for when
// another process has rewritten it, and notifies subscribers.
func (s *Service) Reload(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	meds := s.store.Load(ctx)
	s.mu.Lock()
	s.meds = meds
	s.mu.Unlock()

	s.log.Debug("reloaded %d medicine(s) from store", len(meds))
	s.notify(meds)
}

// mutate runs fn against a working copy, persists the result and only
// then makes it current. A failed save leaves the list untouched.
func (s *Service) mutate(ctx context.Context, fn func([]domain.Medicine) ([]domain.Medicine, error)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, err := fn(s.List())
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, next); err != nil {
		return fmt.Errorf("saving medicines: %w", err)
	}

	s.mu.Lock()
	s.meds = next
	s.mu.Unlock()

	s.notify(next)
	return nil
}

func (s *Service) notify(meds []domain.Medicine) {
	s.mu.RLock()
	fns := make([]ChangeFunc, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(cloneAll(meds))
	}
}

func indexOf(meds []domain.Medicine, id string) int {
	for i := range meds {
		if meds[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(meds []domain.Medicine) []domain.Medicine {
	out := make([]domain.Medicine, len(meds))
	for i, m := range meds {
		out[i] = m.Clone()
	}
	return out
}
