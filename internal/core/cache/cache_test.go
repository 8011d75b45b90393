package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestGetOrLoadJSON_CachesValue(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	loads := 0
	load := func(context.Context) (*item, error) {
		loads++
		return &item{Name: "alice"}, nil
	}

	v, err := GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Name)

	v, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, "alice", v.Name)
	assert.Equal(t, 1, loads)
	assert.True(t, mr.Exists("taskplatform:k"))

	mr.FastForward(2 * time.Minute)
	_, err = GetOrLoadJSON(c, ctx, "k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestGetOrLoadJSON_MissNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	v, err := GetOrLoadJSON(c, ctx, "absent", time.Minute, func(context.Context) (*item, error) { return nil, nil })
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.False(t, mr.Exists("taskplatform:absent"))
}

func TestGetOrLoadJSON_LoadError(t *testing.T) {
	c, _ := newTestCache(t)
	boom := errors.New("boom")

	_, err := GetOrLoadJSON(c, context.Background(), "k", time.Minute, func(context.Context) (*item, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
}

func TestGetOrLoad_RedisDownFallsBack(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("v"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
}

func TestDelete(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("taskplatform:k", "v"))
	require.NoError(t, c.Delete(context.Background(), "k"))
	assert.False(t, mr.Exists("taskplatform:k"))
}
