package store

import (
	"sync"
	"time"

	"notebook-core/pkg/notebook"
)

// Session holds one open notebook. The notebook itself has no locking; every
// access from the service goes through Lock/Unlock of its session.
type Session struct {
	mu sync.Mutex

	ID       string             `json:"id"` // Notebook ID
	Notebook *notebook.Notebook `json:"notebook"`
	OpenedAt time.Time          `json:"opened_at"`

	// Metadata for last interaction
	LastOperation string    `json:"last_operation"`
	LastTouchedAt time.Time `json:"last_touched_at"`
}

func NewSession(nb *notebook.Notebook) *Session {
	now := time.Now()
	return &Session{
		ID:            nb.Id,
		Notebook:      nb,
		OpenedAt:      now,
		LastTouchedAt: now,
	}
}

func (s *Session) Lock() {
	s.mu.Lock()
}

func (s *Session) Unlock() {
	s.mu.Unlock()
}

// Touch records the last operation. Callers hold the lock.
func (s *Session) Touch(operation string) {
	s.LastOperation = operation
	s.LastTouchedAt = time.Now()
}
