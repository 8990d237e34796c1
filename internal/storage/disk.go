package storage

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/hammamikhairi/meditime/internal/domain"
	"github.com/hammamikhairi/meditime/internal/logger"
)

// Fixed keys under the base path.
const (
	MedicinesKey  = "meds_v1"
	PermissionKey = "permission"
)

// Compile-time interface checks.
var (
	_ domain.MedicineStore   = (*DiskStore)(nil)
	_ domain.PermissionStore = (*DiskStore)(nil)
)

// DiskStore keeps the whole medicine list as one JSON blob in a diskv
// directory. Every save rewrites the blob.
type DiskStore struct {
	d        *diskv.Diskv
	basePath string
	log      *logger.Logger

	mu         sync.Mutex
	lastDigest [sha256.Size]byte // digest of this process's last write
}

// NewDiskStore opens (creating if needed) a store rooted at basePath.
func NewDiskStore(basePath string, log *logger.Logger) (*DiskStore, error) {
	if basePath == "" {
		return nil, fmt.Errorf("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 0, // other processes write the same blob
		}),
		basePath: basePath,
		log:      log,
	}, nil
}

// BasePath returns the directory backing the store.
func (s *DiskStore) BasePath() string { return s.basePath }

// Load reads the medicine blob. A missing or corrupt blob is an empty list.
func (s *DiskStore) Load(ctx context.Context) []domain.Medicine {
	if !s.d.Has(MedicinesKey) {
		s.log.Debug("no stored medicines yet")
		return []domain.Medicine{}
	}
	raw, err := s.d.Read(MedicinesKey)
	if err != nil {
		s.log.Warn("reading medicines: %v (starting empty)", err)
		return []domain.Medicine{}
	}
	var meds []domain.Medicine
	if err := json.Unmarshal(raw, &meds); err != nil {
		s.log.Warn("decoding medicines: %v (starting empty)", err)
		return []domain.Medicine{}
	}
	if meds == nil {
		meds = []domain.Medicine{}
	}
	s.log.Debug("loaded %d medicine(s)", len(meds))
	return meds
}

// Save serializes and writes the full list.
func (s *DiskStore) Save(ctx context.Context, meds []domain.Medicine) error {
	if meds == nil {
		meds = []domain.Medicine{}
	}
	data, err := json.Marshal(meds)
	if err != nil {
		return fmt.Errorf("store: encoding medicines: %w", err)
	}

	s.mu.Lock()
	s.lastDigest = sha256.Sum256(data)
	s.mu.Unlock()

	if err := s.d.Write(MedicinesKey, data); err != nil {
		return fmt.Errorf("store: writing medicines: %w", err)
	}
	s.log.Debug("saved %d medicine(s) (%d bytes)", len(meds), len(data))
	return nil
}

// LoadPermission reads the remembered notification decision.
func (s *DiskStore) LoadPermission(ctx context.Context) domain.Permission {
	if !s.d.Has(PermissionKey) {
		return domain.PermissionDefault
	}
	raw, err := s.d.Read(PermissionKey)
	if err != nil {
		s.log.Warn("reading permission: %v", err)
		return domain.PermissionDefault
	}
	return domain.ParsePermission(string(raw))
}

// SavePermission persists the notification decision.
func (s *DiskStore) SavePermission(ctx context.Context, p domain.Permission) error {
	if err := s.d.Write(PermissionKey, []byte(p)); err != nil {
		return fmt.Errorf("store: writing permission: %w", err)
	}
	return nil
}

// ownWrite reports whether data is exactly what this process last saved.
func (s *DiskStore) ownWrite(data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sha256.Sum256(data) == s.lastDigest
}
