package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Enkerli/exquisite-fingerings/internal/handprint"
)

// LibraryEntry is one uploaded handprint library held in memory.
type LibraryEntry struct {
	ID         string
	Library    *handprint.Library
	UploadedAt time.Time
}

// LibraryManager holds uploaded libraries keyed by ID. Entries expire
// after the configured TTL; clients re-upload when a query 404s.
type LibraryManager struct {
	mu   sync.RWMutex
	libs map[string]*LibraryEntry
	ttl  time.Duration
}

// NewLibraryManager creates a new library manager
func NewLibraryManager(ttl time.Duration) *LibraryManager {
	return &LibraryManager{
		libs: make(map[string]*LibraryEntry),
		ttl:  ttl,
	}
}

// Put stores a library under a fresh ID and schedules its expiry.
func (m *LibraryManager) Put(lib *handprint.Library) *LibraryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := &LibraryEntry{
		ID:         uuid.NewString(),
		Library:    lib,
		UploadedAt: time.Now(),
	}
	m.libs[entry.ID] = entry

	time.AfterFunc(m.ttl, func() {
		m.mu.Lock()
		delete(m.libs, entry.ID)
		m.mu.Unlock()
	})

	return entry
}

// Get retrieves a library by ID
func (m *LibraryManager) Get(id string) *LibraryEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.libs[id]
}

// Delete removes a library by ID. Returns false when no such library
// exists.
func (m *LibraryManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.libs[id]; !ok {
		return false
	}
	delete(m.libs, id)
	return true
}
