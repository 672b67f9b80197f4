package fetcher

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// memo remembers successful bodies so a game listed twice is fetched once.
// A nil *memo is valid and remembers nothing.
type memo struct {
	bodies *cache.Cache
}

func newMemo(ttl time.Duration) *memo {
	if ttl <= 0 {
		return nil
	}
	return &memo{bodies: cache.New(ttl, 2*ttl)}
}

func (m *memo) get(gameID string) ([]byte, bool) {
	if m == nil {
		return nil, false
	}
	v, found := m.bodies.Get(gameID)
	if !found {
		return nil, false
	}
	return v.([]byte), true
}

func (m *memo) put(gameID string, body []byte) {
	if m == nil {
		return
	}
	m.bodies.SetDefault(gameID, body)
}
