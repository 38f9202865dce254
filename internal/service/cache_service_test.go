package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/cursos-api/pkg/errors"
)

type memoryCache struct {
	data      map[string][]byte
	deleted   []string
	deleteErr error
}

func (m *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, k := range keys {
		m.deleted = append(m.deleted, k)
		delete(m.data, k)
	}
	return nil
}

type failingCache struct{ err error }

func (f failingCache) Get(ctx context.Context, key string, dest interface{}) error { return f.err }
func (f failingCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return f.err
}
func (f failingCache) Delete(ctx context.Context, keys ...string) error { return f.err }

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(&memoryCache{data: map[string][]byte{}}, nil, 0, nil, false)
	assert.False(t, svc.Enabled())

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	hit, err := nilSvc.Get(context.Background(), "k", &struct{}{})
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, nilSvc.Set(context.Background(), "k", 1, 0))
	assert.NoError(t, nilSvc.Delete(context.Background(), "k"))
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := &memoryCache{data: map[string][]byte{}}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	var out []string
	hit, err := svc.Get(ctx, "cursos:all", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(ctx, "cursos:all", []string{"MC102"}, 0))
	hit, err = svc.Get(ctx, "cursos:all", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"MC102"}, out)

	require.NoError(t, svc.Delete(ctx, "cursos:all"))
	hit, _ = svc.Get(ctx, "cursos:all", &out)
	assert.False(t, hit)
}

func TestCacheServicePropagatesBackendErrors(t *testing.T) {
	boom := errors.New("redis down")
	svc := NewCacheService(failingCache{err: boom}, NewMetricsService(), 0, zap.NewNop(), true)
	ctx := context.Background()

	hit, err := svc.Get(ctx, "k", &struct{}{})
	assert.False(t, hit)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, svc.Set(ctx, "k", 1, 0), boom)
	assert.ErrorIs(t, svc.Delete(ctx, "k"), boom)
}

func TestCacheServiceFailedDeleteMarksKeyStale(t *testing.T) {
	repo := &memoryCache{data: map[string][]byte{}}
	svc := NewCacheService(repo, nil, time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "cursos:all", []string{"MC102"}, 0))

	repo.deleteErr = errors.New("redis down")
	assert.Error(t, svc.Delete(ctx, "cursos:all"))

	// The old value is still in the backend but must not be served or replaced.
	var out []string
	hit, err := svc.Get(ctx, "cursos:all", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.Set(ctx, "cursos:all", []string{"FIS101"}, 0))
	assert.JSONEq(t, `["MC102"]`, string(repo.data["cursos:all"]))

	// Once the backend recovers the next lookup clears the key and caching resumes.
	repo.deleteErr = nil
	hit, err = svc.Get(ctx, "cursos:all", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotContains(t, repo.data, "cursos:all")

	require.NoError(t, svc.Set(ctx, "cursos:all", []string{"FIS101"}, 0))
	hit, err = svc.Get(ctx, "cursos:all", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"FIS101"}, out)
}
