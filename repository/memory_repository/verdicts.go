package memory_repository

import (
	"context"
	"sync"
	"time"
)

type verdictEntry struct {
	reachable bool
	expires   time.Time
}

// MemoryVerdictRepository is a process-local verdict store with lazy expiry.
type MemoryVerdictRepository struct {
	mu      sync.Mutex
	entries map[string]verdictEntry
	now     func() time.Time
}

func NewMemoryVerdictRepository() *MemoryVerdictRepository {
	return &MemoryVerdictRepository{entries: make(map[string]verdictEntry), now: time.Now}
}

func (m *MemoryVerdictRepository) GetVerdict(_ context.Context, fingerprint string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[fingerprint]
	if !ok {
		return false, false, nil
	}
	if !entry.expires.IsZero() && !m.now().Before(entry.expires) {
		delete(m.entries, fingerprint)
		return false, false, nil
	}
	return entry.reachable, true, nil
}

func (m *MemoryVerdictRepository) SaveVerdict(_ context.Context, fingerprint string, reachable bool, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := verdictEntry{reachable: reachable}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}
	m.entries[fingerprint] = entry
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryVerdictRepository) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryVerdictRepository) Close() error { return nil }
