package pagination

import (
	"context"
	"sync"
	"time"
)

// Preference is the sort and page size a caller last used in one context.
type Preference struct {
	SortKey  string `json:"sort"`
	PageSize int    `json:"pagesize"`
}

// PreferenceStore persists preferences per caller (owner) and per context
// key. Implementations must be safe for concurrent use; last write wins.
type PreferenceStore interface {
	// Load returns (nil, nil) when nothing is stored.
	Load(ctx context.Context, owner, contextKey string) (*Preference, error)
	Save(ctx context.Context, owner, contextKey string, pref Preference) error
}

type memoryEntry struct {
	pref      Preference
	expiresAt time.Time
}

// MemoryPreferenceStore keeps preferences in process memory with a TTL.
// Expired entries are invisible to Load and removed by Sweep.
type MemoryPreferenceStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryPreferenceStore creates an in-memory store. A non-positive ttl
// keeps entries forever.
func NewMemoryPreferenceStore(ttl time.Duration) *MemoryPreferenceStore {
	return &MemoryPreferenceStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func memoryKey(owner, contextKey string) string {
	return owner + "\x00" + contextKey
}

// Load implements PreferenceStore.
func (s *MemoryPreferenceStore) Load(_ context.Context, owner, contextKey string) (*Preference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[memoryKey(owner, contextKey)]
	if !ok || s.expired(e) {
		return nil, nil
	}
	pref := e.pref
	return &pref, nil
}

// Save implements PreferenceStore.
func (s *MemoryPreferenceStore) Save(_ context.Context, owner, contextKey string, pref Preference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := memoryEntry{pref: pref}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[memoryKey(owner, contextKey)] = e
	return nil
}

// Sweep drops expired entries and returns how many were removed.
func (s *MemoryPreferenceStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired ones included.
func (s *MemoryPreferenceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryPreferenceStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
