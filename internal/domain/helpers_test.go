package domain_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/davidbz/lodestar/internal/domain"
)

var errStoreDown = errors.New("connection refused")

// downCacheStore fails every operation.
type downCacheStore struct{}

func (downCacheStore) Get(context.Context, string) ([]byte, error) { return nil, errStoreDown }

func (downCacheStore) Set(context.Context, string, []byte, time.Duration) error { return errStoreDown }

func (downCacheStore) Expire(context.Context, string, time.Duration) error { return errStoreDown }

func (downCacheStore) Delete(context.Context, ...string) error { return errStoreDown }

func (downCacheStore) AddToSet(context.Context, string, time.Duration, ...string) error {
	return errStoreDown
}

func (downCacheStore) SetMembers(context.Context, string) ([]string, error) { return nil, errStoreDown }

func (downCacheStore) Ping(context.Context) error { return errStoreDown }

func (downCacheStore) Stats(context.Context) (*domain.CacheStoreStats, error) { return nil, errStoreDown }

// callLog records the order of tier calls across goroutines.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// recordingCacheStore logs reads before delegating.
type recordingCacheStore struct {
	domain.CacheStore
	log *callLog
}

func (r recordingCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	r.log.add("cache.get")
	return r.CacheStore.Get(ctx, key)
}

func (r recordingCacheStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	r.log.add("cache.members")
	return r.CacheStore.SetMembers(ctx, key)
}

// recordingVectorStore logs queries before delegating.
type recordingVectorStore struct {
	domain.VectorStore
	log *callLog
}

func (r recordingVectorStore) Query(
	ctx context.Context,
	vector []float64,
	limit int,
	threshold float64,
) ([]*domain.SemanticMatch, error) {
	r.log.add("vector.query")
	return r.VectorStore.Query(ctx, vector, limit, threshold)
}

func ptr[T any](v T) *T { return &v }
