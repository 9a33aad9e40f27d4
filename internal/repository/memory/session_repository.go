package memory

import (
	"notebook-core/pkg/store"
	"time"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository keeps sessions for ttl after their last save and
// purges expired ones every cleanupInterval.
func NewSessionRepository(ttl, cleanupInterval time.Duration) *SessionRepository {
	c := cache.New(ttl, cleanupInterval)
	return &SessionRepository{
		cache: c,
	}
}

// Save stores the session and restarts its expiration.
func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

// Add stores the session only if no live session has the same id.
func (r *SessionRepository) Add(session *store.Session) bool {
	return r.cache.Add(session.ID, session, cache.DefaultExpiration) == nil
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}

// OnEvicted registers fn to run when a session expires or is deleted.
func (r *SessionRepository) OnEvicted(fn func(sessionID string)) {
	r.cache.OnEvicted(func(key string, _ interface{}) {
		fn(key)
	})
}
