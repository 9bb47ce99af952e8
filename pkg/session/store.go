package session

import (
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Store is the server-side session backend: get/put/destroy by session id.
type Store interface {
	// Get returns the session data for id, or ok=false when the session is
	// unknown or expired.
	Get(id string) (map[string]interface{}, bool)
	// Put writes the session data under id with the given lifetime.
	Put(id string, data map[string]interface{}, ttl time.Duration) error
	// Destroy removes the session. Destroying an unknown id is not an error.
	Destroy(id string) error
}

var (
	storeMu     sync.RWMutex
	activeStore Store = newMemoryStore()
)

// SetStore installs the backend used by the session middleware.
// Called once at boot; defaults to an in-process store so tests and
// store-less tools still work.
func SetStore(s Store) {
	storeMu.Lock()
	activeStore = s
	storeMu.Unlock()
}

// ActiveStore returns the installed backend.
func ActiveStore() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return activeStore
}

// ------------------- Database store -------------------

// Record is the GORM model for the sessions table.
type Record struct {
	ID        string    `gorm:"primaryKey;size:64"`
	Data      string    `gorm:"type:text"`
	ExpiresAt time.Time `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Record) TableName() string { return "sessions" }

// GormStore persists sessions in the shared relational database, so the
// service stays horizontally stateless without requiring Redis.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a database-backed store on the given handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(id string) (map[string]interface{}, bool) {
	var rec Record
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		return nil, false
	}

	if time.Now().After(rec.ExpiresAt) {
		_ = s.db.Delete(&Record{}, "id = ?", id).Error
		return nil, false
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(rec.Data), &data); err != nil {
		return nil, false
	}
	return data, true
}

func (s *GormStore) Put(id string, data map[string]interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}

	rec := Record{ID: id, Data: string(raw), ExpiresAt: time.Now().Add(ttl)}
	return s.db.Save(&rec).Error
}

func (s *GormStore) Destroy(id string) error {
	return s.db.Delete(&Record{}, "id = ?", id).Error
}

// ------------------- Memory store -------------------

// memoryStore is the fallback backend used before SetStore runs and in tests.
type memoryStore struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
}

type memoryEntry struct {
	data      map[string]interface{}
	expiresAt time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]memoryEntry{}}
}

func (s *memoryStore) Get(id string) (map[string]interface{}, bool) {
	s.mu.RLock()
	entry, ok := s.data[id]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}

	out := make(map[string]interface{}, len(entry.data))
	for k, v := range entry.data {
		out[k] = v
	}
	return out, true
}

func (s *memoryStore) Put(id string, data map[string]interface{}, ttl time.Duration) error {
	copied := make(map[string]interface{}, len(data))
	for k, v := range data {
		copied[k] = v
	}

	s.mu.Lock()
	s.data[id] = memoryEntry{data: copied, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Destroy(id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()
	return nil
}
