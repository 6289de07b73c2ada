package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

const (
	DefaultTTL        = 300 * time.Second
	defaultMaxEntries = 256
)

type entry struct {
	value     domain.SearchOutcome
	expiresAt time.Time
}

// Cache memoizes full federated searches with bounded staleness.
// Expired entries are evicted lazily on read. A soft entry cap keeps
// the map from growing without bound: when a Set would exceed it,
// expired entries are purged first, then the entry closest to expiry.
type Cache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	entries    map[string]entry
}

func New(ttl time.Duration, maxEntries int, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
		entries:    make(map[string]entry),
	}
}

func (c *Cache) Get(req domain.SearchRequest) (domain.SearchOutcome, bool) {
	key := Key("search", req)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.SearchOutcome{}, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return domain.SearchOutcome{}, false
	}
	return e.value, true
}

func (c *Cache) Set(req domain.SearchRequest, value domain.SearchOutcome) {
	key := Key("search", req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked()
	}
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *Cache) evictLocked() {
	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.maxEntries {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for k, e := range c.entries {
		if !found || e.expiresAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

// Key hashes a canonical request description. The payload must be a
// struct so field order, and therefore the fingerprint, is stable.
func Key(prefix string, payload any) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte(prefix)
	}
	sum := sha256.Sum256(append([]byte(prefix), raw...))
	return hex.EncodeToString(sum[:])
}
