package service

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

type memCache struct {
	items  map[string][]byte
	ttls   map[string]time.Duration
	setErr error
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.items[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memCache) DeleteByPattern(ctx context.Context, pattern string) error {
	for k := range m.items {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.items, k)
		}
	}
	return nil
}

func TestCacheServiceRoundTripAndDefaultTTL(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, NewMetricsService(), time.Minute, nil, true)

	svc.Set(context.Background(), "k", []string{"a"}, 0)
	assert.Equal(t, time.Minute, repo.ttls["k"])

	var out []string
	require.True(t, svc.Get(context.Background(), "k", &out))
	assert.Equal(t, []string{"a"}, out)

	svc.Delete(context.Background(), "k")
	assert.False(t, svc.Get(context.Background(), "k", &out))
}

func TestCacheServiceInvalidateByPattern(t *testing.T) {
	repo := newMemCache()
	svc := NewCacheService(repo, nil, 0, nil, true)
	svc.Set(context.Background(), "magang:reference:majors", 1, 0)
	svc.Set(context.Background(), "magang:reference:periods", 1, 0)
	svc.Set(context.Background(), "magang:reports:urgent", 1, 0)

	svc.Invalidate(context.Background(), "magang:reference:*")
	assert.Len(t, repo.items, 1)
	assert.Contains(t, repo.items, "magang:reports:urgent")
}

func TestCacheServiceDisabledAndNil(t *testing.T) {
	repo := newMemCache()
	disabled := NewCacheService(repo, nil, 0, nil, false)
	disabled.Set(context.Background(), "k", 1, 0)
	assert.Empty(t, repo.items)

	var nilSvc *CacheService
	var out int
	assert.False(t, nilSvc.Enabled())
	assert.False(t, nilSvc.Get(context.Background(), "k", &out))
	nilSvc.Set(context.Background(), "k", 1, 0)
	nilSvc.Delete(context.Background(), "k")
}

func TestCacheServiceLogsWriteFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	repo := newMemCache()
	repo.setErr = errors.New("redis down")
	svc := NewCacheService(repo, nil, 0, zap.New(core), true)

	svc.Set(context.Background(), "k", 1, 0)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "cache set failed", logs.All()[0].Message)
}
