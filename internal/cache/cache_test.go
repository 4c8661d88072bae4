package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/internal/common"
)

func TestMemory_LRUEviction(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2, time.Hour)
	m.Set(ctx, "a", []byte("1"))
	m.Set(ctx, "b", []byte("2"))
	_, ok := m.Get(ctx, "a")
	require.True(t, ok)
	m.Set(ctx, "c", []byte("3"))

	_, ok = m.Get(ctx, "b")
	assert.False(t, ok, "least recently used entry evicted")
	v, ok := m.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)
	assert.Equal(t, 2, m.Len())
}

func TestMemory_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory(4, time.Minute)
	m.now = func() time.Time { return now }

	m.Set(ctx, "k", []byte("v"))
	_, ok := m.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}

func TestMemory_CopiesValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1, 0)
	buf := []byte("abc")
	m.Set(ctx, "k", buf)
	buf[0] = 'x'
	v, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(v))
}

func TestNew_Backends(t *testing.T) {
	c, err := New(common.CacheConfig{Backend: "none"}, nil)
	require.NoError(t, err)
	assert.IsType(t, Nop{}, c)

	c, err = New(common.CacheConfig{Backend: "memory", Capacity: 8, TTL: time.Minute}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(common.CacheConfig{Backend: "redis", RedisURL: "redis://localhost:6379/0"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)

	_, err = New(common.CacheConfig{Backend: "redis", RedisURL: "::bad"}, nil)
	assert.Error(t, err)
	_, err = New(common.CacheConfig{Backend: "disk"}, nil)
	assert.Error(t, err)
}

func TestRedis_UnreachableIsMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	r := NewRedis(client, nil, WithPrefix("t:"), WithTTL(time.Minute))
	defer r.Close()

	ctx := context.Background()
	r.Set(ctx, "k", []byte("v"))
	_, ok := r.Get(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, r.Ping(ctx))
	assert.Equal(t, "t:k", r.key("k"))
}
