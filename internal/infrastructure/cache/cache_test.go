package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/tamu-aesl/adams/internal/core/domain"
)

func outcomeWith(n int) domain.SearchOutcome {
	return domain.SearchOutcome{Returned: n}
}

func reqFor(query string) domain.SearchRequest {
	return domain.SearchRequest{Query: query}
}

func TestCacheRoundTripAndExpiry(t *testing.T) {
	clock := time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)
	c := New(5*time.Minute, 0, func() time.Time { return clock })

	c.Set(reqFor("steam generator"), outcomeWith(3))
	got, ok := c.Get(reqFor("steam generator"))
	if !ok || got.Returned != 3 {
		t.Fatalf("expected cached outcome, got ok=%v value=%+v", ok, got)
	}

	clock = clock.Add(5*time.Minute + time.Second)
	if _, ok := c.Get(reqFor("steam generator")); ok {
		t.Fatal("expected entry to expire after the TTL")
	}
}

func TestCacheEvictsEarliestExpiryAtCapacity(t *testing.T) {
	clock := time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)
	c := New(5*time.Minute, 2, func() time.Time { return clock })

	c.Set(reqFor("first"), outcomeWith(1))
	clock = clock.Add(time.Minute)
	c.Set(reqFor("second"), outcomeWith(2))
	clock = clock.Add(time.Minute)
	c.Set(reqFor("third"), outcomeWith(3))

	if _, ok := c.Get(reqFor("first")); ok {
		t.Fatal("expected the entry closest to expiry to be evicted")
	}
	if _, ok := c.Get(reqFor("second")); !ok {
		t.Fatal("expected second entry to survive eviction")
	}
	if _, ok := c.Get(reqFor("third")); !ok {
		t.Fatal("expected newly set entry to be present")
	}
}

func TestKeyIsStableAndDiscriminating(t *testing.T) {
	type payload struct {
		Query string
		TopN  int
	}

	a := Key("search", payload{Query: "steam generator", TopN: 5})
	b := Key("search", payload{Query: "steam generator", TopN: 5})
	if a != b {
		t.Fatalf("expected identical payloads to share a key: %s vs %s", a, b)
	}

	c := Key("search", payload{Query: "steam generator", TopN: 10})
	if a == c {
		t.Fatal("expected differing payloads to produce different keys")
	}

	d := Key("other", payload{Query: "steam generator", TopN: 5})
	if a == d {
		t.Fatal("expected the prefix to partition the key space")
	}
}

func TestCacheSoftCapPurgesExpiredFirst(t *testing.T) {
	clock := time.Date(2024, time.March, 7, 12, 0, 0, 0, time.UTC)
	c := New(time.Minute, 3, func() time.Time { return clock })

	for i := 0; i < 3; i++ {
		c.Set(reqFor(fmt.Sprintf("old-%d", i)), outcomeWith(i))
	}
	clock = clock.Add(2 * time.Minute)
	c.Set(reqFor("fresh"), outcomeWith(9))

	if _, ok := c.Get(reqFor("fresh")); !ok {
		t.Fatal("expected fresh entry to be stored")
	}
	for i := 0; i < 3; i++ {
		if _, ok := c.Get(reqFor(fmt.Sprintf("old-%d", i))); ok {
			t.Fatalf("expected expired entry old-%d to be gone", i)
		}
	}
}
