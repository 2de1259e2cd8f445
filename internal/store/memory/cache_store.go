// Package memory provides in-process cache and vector stores for local runs and tests.
package memory

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/davidbz/lodestar/internal/domain"
)

const defaultCapacity = 10000

type item struct {
	key     string
	value   []byte
	members map[string]struct{}
	expires time.Time
	element *list.Element
}

func (i *item) expired(now time.Time) bool {
	return !i.expires.IsZero() && !now.Before(i.expires)
}

// CacheStore is a bounded LRU key/value and set store with per-key expiry.
type CacheStore struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*item
	order    *list.List
	now      func() time.Time
}

// NewCacheStore creates a store holding at most capacity keys.
func NewCacheStore(capacity int) *CacheStore {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &CacheStore{
		capacity: capacity,
		items:    make(map[string]*item),
		order:    list.New(),
		now:      time.Now,
	}
}

// WithClock overrides the time source. Used by tests to drive expiry.
func (s *CacheStore) WithClock(now func() time.Time) *CacheStore {
	s.now = now
	return s
}

// Get implements domain.CacheStore.
func (s *CacheStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.live(key)
	if !ok || it.members != nil {
		return nil, domain.ErrNotFound
	}

	s.order.MoveToFront(it.element)
	out := make([]byte, len(it.value))
	copy(out, it.value)
	return out, nil
}

// Set implements domain.CacheStore.
func (s *CacheStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := make([]byte, len(value))
	copy(data, value)

	it := s.upsert(key)
	it.value = data
	it.members = nil
	it.expires = s.expiry(ttl)
	return nil
}

// Expire implements domain.CacheStore.
func (s *CacheStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.live(key)
	if !ok {
		return domain.ErrNotFound
	}
	it.expires = s.expiry(ttl)
	return nil
}

// Delete implements domain.CacheStore.
func (s *CacheStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		if it, ok := s.items[key]; ok {
			s.remove(it)
		}
	}
	return nil
}

// AddToSet implements domain.CacheStore.
func (s *CacheStore) AddToSet(_ context.Context, key string, ttl time.Duration, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.live(key)
	if ok && it.members == nil {
		return fmt.Errorf("key %s holds a value, not a set", key)
	}
	if !ok {
		it = s.upsert(key)
		it.members = make(map[string]struct{}, len(members))
	}
	for _, m := range members {
		it.members[m] = struct{}{}
	}

	switch {
	case !ok || ttl <= 0:
		it.expires = s.expiry(ttl)
	case it.expires.IsZero():
		// Persistent sets stay persistent.
	default:
		if next := s.expiry(ttl); next.After(it.expires) {
			it.expires = next
		}
	}
	s.order.MoveToFront(it.element)
	return nil
}

// SetMembers implements domain.CacheStore.
func (s *CacheStore) SetMembers(_ context.Context, key string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.live(key)
	if !ok || it.members == nil {
		return nil, nil
	}

	out := make([]string, 0, len(it.members))
	for m := range it.members {
		out = append(out, m)
	}
	return out, nil
}

// Ping implements domain.CacheStore.
func (s *CacheStore) Ping(_ context.Context) error {
	return nil
}

// Stats implements domain.CacheStore.
func (s *CacheStore) Stats(_ context.Context) (*domain.CacheStoreStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &domain.CacheStoreStats{
		Backend: "memory",
		Keys:    int64(len(s.items)),
		Details: map[string]string{"capacity": fmt.Sprint(s.capacity)},
	}, nil
}

// live returns the item at key, evicting it when expired.
func (s *CacheStore) live(key string) (*item, bool) {
	it, ok := s.items[key]
	if !ok {
		return nil, false
	}
	if it.expired(s.now()) {
		s.remove(it)
		return nil, false
	}
	return it, true
}

func (s *CacheStore) upsert(key string) *item {
	if it, ok := s.items[key]; ok {
		s.order.MoveToFront(it.element)
		return it
	}

	if len(s.items) >= s.capacity {
		s.evictOldest()
	}

	it := &item{key: key}
	it.element = s.order.PushFront(it)
	s.items[key] = it
	return it
}

func (s *CacheStore) evictOldest() {
	elem := s.order.Back()
	if elem == nil {
		return
	}
	s.remove(elem.Value.(*item))
}

func (s *CacheStore) remove(it *item) {
	s.order.Remove(it.element)
	delete(s.items, it.key)
}

func (s *CacheStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}
