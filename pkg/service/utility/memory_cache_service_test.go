package utility

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheService(t *testing.T) {
	svc := NewMemoryCacheService()
	defer svc.Stop()

	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "a", "1", time.Minute))
	require.NoError(t, svc.Set(ctx, "b", "2", 0))

	v, err := svc.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	// 未命中返回空字符串而不是错误
	v, err = svc.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	now = now.Add(2 * time.Minute)
	v, _ = svc.Get(ctx, "a")
	assert.Empty(t, v, "expired")
	v, _ = svc.Get(ctx, "b")
	assert.Equal(t, "2", v, "no expiry")

	require.NoError(t, svc.Delete(ctx, "b", "not-there"))
	v, _ = svc.Get(ctx, "b")
	assert.Empty(t, v)

	svc.Stop()
}

func TestNewCacheServiceWithFallback_NilRedis(t *testing.T) {
	svc := NewCacheServiceWithFallback(context.Background(), nil, nil)
	assert.Equal(t, CacheTypeMemory, GetCacheServiceType(svc))
	if m, ok := svc.(*MemoryCacheService); ok {
		m.Stop()
	}
}
