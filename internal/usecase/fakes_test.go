package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"intern-match/internal/domain/matching"
	"intern-match/internal/domain/recommendation"
	"intern-match/internal/repository"

	"github.com/google/uuid"
)

type fakeProfiles struct {
	m   map[uuid.UUID]matching.CandidateProfile
	err error
}

func (f fakeProfiles) FindByCandidateID(_ context.Context, id uuid.UUID) (matching.CandidateProfile, error) {
	if f.err != nil {
		return matching.CandidateProfile{}, f.err
	}
	p, ok := f.m[id]
	if !ok {
		return matching.CandidateProfile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f fakeProfiles) ListCandidateIDs(context.Context) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(f.m))
	for id := range f.m {
		out = append(out, id)
	}
	return out, nil
}

type fakeListings struct {
	mu      sync.Mutex
	catalog []matching.Listing
	err     error
}

func (f *fakeListings) set(c []matching.Listing) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalog = c
}

func (f *fakeListings) ListCatalog(context.Context) ([]matching.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]matching.Listing, len(f.catalog))
	copy(out, f.catalog)
	return out, nil
}

func (f *fakeListings) FindByID(_ context.Context, id uuid.UUID) (matching.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.catalog {
		if l.ID == id.String() {
			return l, nil
		}
	}
	return matching.Listing{}, repository.ErrListingNotFound
}

type fakeApplications struct {
	ids []string
}

func (f fakeApplications) ListAppliedListingIDs(context.Context, uuid.UUID) ([]string, error) {
	return f.ids, nil
}

type fakeRecords struct {
	mu       sync.Mutex
	m        map[string]recommendation.DailyRecord
	writeErr error

	gets, upserts, replaces, deletes int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{m: map[string]recommendation.DailyRecord{}}
}

func recordKey(id uuid.UUID, date string) string { return id.String() + "|" + date }

func (f *fakeRecords) Get(_ context.Context, id uuid.UUID, date string) (recommendation.DailyRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	rec, ok := f.m[recordKey(id, date)]
	return rec, ok, nil
}

func (f *fakeRecords) Upsert(_ context.Context, rec recommendation.DailyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.m[recordKey(rec.CandidateID, rec.Date)] = rec
	return nil
}

func (f *fakeRecords) Replace(_ context.Context, rec recommendation.DailyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaces++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.m[recordKey(rec.CandidateID, rec.Date)] = rec
	return nil
}

func (f *fakeRecords) Delete(_ context.Context, id uuid.UUID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	delete(f.m, recordKey(id, date))
	return nil
}

func (f *fakeRecords) writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.upserts + f.replaces
}

type fakeCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	ttls map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{m: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = b
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.m[key]; ok {
		return false, nil
	}
	c.m[key] = []byte(value)
	return true, nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	return ok
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

var errBoom = errors.New("boom")
