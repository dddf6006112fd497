package inmemory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memorybase/memorybase-go/pkg/longterm/inmemory"
)

func TestPutGetRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewClient()

	require.NoError(t, store.PutObject(ctx, "profiles/u1.json", []byte(`{"a":1}`), "application/json"))

	data, found, err := store.GetObject(ctx, "profiles/u1.json")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), data)
}

func TestGetMissingReturnsAbsent(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewClient()

	data, found, err := store.GetObject(ctx, "profiles/nonexistent.json")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestPutOverwritesLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewClient()

	require.NoError(t, store.PutObject(ctx, "k", []byte("first"), ""))
	require.NoError(t, store.PutObject(ctx, "k", []byte("second"), ""))

	data, found, err := store.GetObject(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("second"), data)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewClient()

	require.NoError(t, store.PutObject(ctx, "k", []byte("v"), ""))
	require.NoError(t, store.DeleteObject(ctx, "k"))
	require.NoError(t, store.DeleteObject(ctx, "k"))

	_, found, err := store.GetObject(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListPrefix(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewClient()

	require.NoError(t, store.PutObject(ctx, "profiles/u1.json", []byte("{}"), ""))
	require.NoError(t, store.PutObject(ctx, "profiles/u2.json", []byte("{}"), ""))
	require.NoError(t, store.PutObject(ctx, "knowledge/u1.jsonl", []byte(""), ""))

	keys, err := store.ListPrefix(ctx, "profiles/")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"profiles/u1.json", "profiles/u2.json"}, keys)

	keys, err = store.ListPrefix(ctx, "knowledge/")
	require.NoError(t, err)
	assert.Equal(t, []string{"knowledge/u1.jsonl"}, keys)

	keys, err = store.ListPrefix(ctx, "missing/")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewClient()

	require.NoError(t, store.PutObject(ctx, "k", []byte("abc"), ""))

	data, _, err := store.GetObject(ctx, "k")
	require.NoError(t, err)
	data[0] = 'x'

	again, _, err := store.GetObject(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := inmemory.NewClient()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", n%4)
			for j := 0; j < 100; j++ {
				_ = store.PutObject(ctx, key, []byte("v"), "")
				_, _, _ = store.GetObject(ctx, key)
				_, _ = store.ListPrefix(ctx, "k")
				_ = store.DeleteObject(ctx, key)
			}
		}(i)
	}
	wg.Wait()
}
