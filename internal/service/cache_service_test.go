package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

type stubCacheRepo struct {
	values  map[string]interface{}
	getErr  error
	setErr  error
	deleted []string
}

func (s *stubCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	if s.getErr != nil {
		return s.getErr
	}
	value, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if p, ok := dest.(*string); ok {
		*p = value.(string)
	}
	return nil
}

func (s *stubCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if s.setErr != nil {
		return s.setErr
	}
	if s.values == nil {
		s.values = make(map[string]interface{})
	}
	s.values[key] = value
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	s.deleted = append(s.deleted, pattern)
	return nil
}

func TestCacheDisabledIsNoop(t *testing.T) {
	svc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, nil, false)

	assert.False(t, svc.Enabled())
	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)
	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
}

func TestCacheHitAndMiss(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, svc.Set(context.Background(), "k", "v", 0))
	hit, err = svc.Get(context.Background(), "k", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", out)
}

func TestCacheGetSurfacesBackendErrors(t *testing.T) {
	repo := &stubCacheRepo{getErr: errors.New("redis down")}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	var out string
	hit, err := svc.Get(context.Background(), "k", &out)
	require.Error(t, err)
	assert.False(t, hit)
}

func TestCacheInvalidate(t *testing.T) {
	repo := &stubCacheRepo{}
	svc := NewCacheService(repo, nil, time.Minute, nil, true)

	require.NoError(t, svc.Invalidate(context.Background(), "grades:*"))
	assert.Equal(t, []string{"grades:*"}, repo.deleted)
}

func TestNilCacheServiceIsSafe(t *testing.T) {
	var svc *CacheService
	assert.False(t, svc.Enabled())
}
