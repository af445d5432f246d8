package history

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type conversation struct {
	mu        sync.Mutex
	exchanges []Exchange
	// cleared is set under mu once Clear has dropped the entry from the cache.
	cleared bool
}

// add appends unless the conversation was cleared; callers then retry on a fresh entry.
func (c *conversation) add(exchange Exchange, maxEntries int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cleared {
		return false
	}
	c.exchanges = append(c.exchanges, exchange)
	if over := len(c.exchanges) - maxEntries; over > 0 {
		c.exchanges = append([]Exchange(nil), c.exchanges[over:]...)
	}
	return true
}

// MemoryStore keeps conversations in a go-cache. Each conversation has its own
// lock so appends to different keys never contend.
type MemoryStore struct {
	cache      *cache.Cache
	ttl        time.Duration
	maxEntries int
}

// NewMemoryStore creates a store; ttl <= 0 keeps conversations until cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	expiration := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiration = ttl
		cleanup = ttl / 2
	}
	return &MemoryStore{
		cache:      cache.New(expiration, cleanup),
		ttl:        expiration,
		maxEntries: MaxEntries,
	}
}

func (s *MemoryStore) conversation(key Key) *conversation {
	id := key.String()
	if x, found := s.cache.Get(id); found {
		return x.(*conversation)
	}
	// Add fails when another goroutine won the race; use its entry.
	fresh := &conversation{}
	if err := s.cache.Add(id, fresh, s.ttl); err != nil {
		if x, found := s.cache.Get(id); found {
			return x.(*conversation)
		}
		s.cache.Set(id, fresh, s.ttl)
	}
	return fresh
}

func (s *MemoryStore) Append(_ context.Context, key Key, exchange Exchange) error {
	for !s.conversation(key).add(exchange, s.maxEntries) {
	}
	return nil
}

func (s *MemoryStore) List(_ context.Context, key Key) ([]Exchange, error) {
	x, found := s.cache.Get(key.String())
	if !found {
		return []Exchange{}, nil
	}
	conv := x.(*conversation)

	conv.mu.Lock()
	defer conv.mu.Unlock()

	out := make([]Exchange, len(conv.exchanges))
	copy(out, conv.exchanges)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, key Key) (bool, error) {
	id := key.String()
	for {
		x, found := s.cache.Get(id)
		if !found {
			return false, nil
		}
		conv := x.(*conversation)

		conv.mu.Lock()
		if conv.cleared {
			// Lost a race with another Clear; look again.
			conv.mu.Unlock()
			continue
		}
		conv.cleared = true
		if cur, ok := s.cache.Get(id); ok && cur == x {
			s.cache.Delete(id)
		}
		had := len(conv.exchanges) > 0
		conv.mu.Unlock()
		return had, nil
	}
}
