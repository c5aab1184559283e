package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Keyed keeps one token bucket per key (a candidate ID, a client address).
// A bucket idle for a full refill window is dropped, since a fresh one behaves
// the same; the map holds at most the keys seen within that window.
type Keyed struct {
	mu        sync.Mutex
	m         map[string]*entry
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type entry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewPerMinute allows perMinute events per key per minute with a burst of the
// same size. perMinute <= 0 disables limiting.
func NewPerMinute(perMinute int) *Keyed {
	if perMinute <= 0 {
		return &Keyed{m: map[string]*entry{}, r: rate.Inf, now: time.Now}
	}
	return &Keyed{
		m:    make(map[string]*entry),
		r:    rate.Every(time.Minute / time.Duration(perMinute)),
		b:    perMinute,
		idle: time.Minute,
		now:  time.Now,
	}
}

func (k *Keyed) limiterFor(key string, now time.Time) *rate.Limiter {
	k.mu.Lock()
	defer k.mu.Unlock()

	if now.Sub(k.lastSweep) >= k.idle {
		k.sweep(now)
	}
	if e, ok := k.m[key]; ok {
		e.seen = now
		return e.lim
	}
	lim := rate.NewLimiter(k.r, k.b)
	k.m[key] = &entry{lim: lim, seen: now}
	return lim
}

func (k *Keyed) sweep(now time.Time) {
	for key, e := range k.m {
		if now.Sub(e.seen) >= k.idle {
			delete(k.m, key)
		}
	}
	k.lastSweep = now
}

// Allow reports whether an event for key may happen now, consuming a token if so.
func (k *Keyed) Allow(key string) bool {
	if k == nil || k.r == rate.Inf {
		return true
	}
	now := k.now()
	return k.limiterFor(key, now).AllowN(now, 1)
}

// Len is the number of buckets currently held.
func (k *Keyed) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.m)
}
