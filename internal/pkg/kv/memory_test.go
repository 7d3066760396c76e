package kv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGet(t *testing.T) {
	m := NewMemory()
	ctx := t.Context()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v"))
	value, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", value)
}

func TestMemoryIncrBy(t *testing.T) {
	m := NewMemory()
	ctx := t.Context()

	n, err := m.IncrBy(ctx, "counter", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = m.IncrBy(ctx, "counter", 5)
	require.NoError(t, err)
	assert.Equal(t, int64(6), n)

	require.NoError(t, m.Set(ctx, "text", "abc"))
	_, err = m.IncrBy(ctx, "text", 1)
	assert.Error(t, err)
}

func TestMemoryExpireIsLazy(t *testing.T) {
	m := NewMemory()
	ctx := t.Context()
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	existed, err := m.Expire(ctx, "missing", time.Minute)
	require.NoError(t, err)
	assert.False(t, existed)

	require.NoError(t, m.Set(ctx, "k", "v"))
	existed, err = m.Expire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, existed)

	_, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "expired entries disappear on read")
}

func TestMemoryMGet(t *testing.T) {
	m := NewMemory()
	ctx := t.Context()
	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "c", "3"))

	values, err := m.MGet(ctx, "a", "b", "c")
	require.NoError(t, err)
	require.Len(t, values, 3)
	require.NotNil(t, values[0])
	assert.Equal(t, "1", *values[0])
	assert.Nil(t, values[1])
	require.NotNil(t, values[2])
	assert.Equal(t, "3", *values[2])
}
