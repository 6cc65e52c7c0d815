package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// UserLockRepository hands out one mutex per user id. Idle entries expire so
// the registry does not grow with every user ever seen.
type UserLockRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewUserLockRepository() *UserLockRepository {
	// Idle locks expire after 30 minutes, swept every 10.
	return &UserLockRepository{
		cache: cache.New(30*time.Minute, 10*time.Minute),
	}
}

// Lock blocks until the caller owns userId's lock and returns the release func.
func (r *UserLockRepository) Lock(userId string) func() {
	r.mu.Lock()
	var m *sync.Mutex
	if x, found := r.cache.Get(userId); found {
		m = x.(*sync.Mutex)
	} else {
		m = &sync.Mutex{}
	}
	// Refresh the TTL on every use.
	r.cache.Set(userId, m, cache.DefaultExpiration)
	r.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (r *UserLockRepository) Len() int {
	return r.cache.ItemCount()
}
