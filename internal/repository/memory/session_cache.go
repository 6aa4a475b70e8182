package memory

import (
	"time"

	"github.com/patrickmn/go-cache"

	"pilotpro/internal/entity"
)

// SessionCache is a read-through cache in front of the sessions table so the
// per-action validation path does not hit the database every time. The table
// stays authoritative; entries here expire on their own and are evicted
// eagerly on termination.
type SessionCache struct {
	cache *cache.Cache
}

func NewSessionCache() *SessionCache {
	// Purge expired entries every 10 minutes.
	return &SessionCache{
		cache: cache.New(cache.NoExpiration, 10*time.Minute),
	}
}

func (c *SessionCache) Save(session *entity.Session) {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return
	}
	c.cache.Set(session.TokenID, session, ttl)
}

func (c *SessionCache) Get(tokenID string) (*entity.Session, bool) {
	if x, found := c.cache.Get(tokenID); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

func (c *SessionCache) Delete(tokenID string) {
	c.cache.Delete(tokenID)
}
