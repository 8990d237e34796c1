// Package storage persists the medicine list as a single blob.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.MedicineStore   = (*MemoryStore)(nil)
	_ domain.PermissionStore = (*MemoryStore)(nil)
)

// MemoryStore keeps the list in process memory. Safe for concurrent access.
type MemoryStore struct {
	mu         sync.RWMutex
	meds       []domain.Medicine
	permission domain.Permission
	log        *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		permission: domain.PermissionDefault,
		log:        log,
	}
}

// Load returns a copy of the stored list.
func (s *MemoryStore) Load(ctx context.Context) []domain.Medicine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.meds)
}

// Save replaces the stored list.
func (s *MemoryStore) Save(ctx context.Context, meds []domain.Medicine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving %d medicine(s)", len(meds))
	s.meds = cloneAll(meds)
	return nil
}

// LoadPermission returns the remembered decision.
func (s *MemoryStore) LoadPermission(ctx context.Context) domain.Permission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.permission
}

// SavePermission remembers a decision.
func (s *MemoryStore) SavePermission(ctx context.Context, p domain.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.permission = p
	return nil
}

func cloneAll(meds []domain.Medicine) []domain.Medicine {
	out := make([]domain.Medicine, len(meds))
	for i, m := range meds {
		out[i] = m.Clone()
	}
	return out
}
