package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store BlobStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("open missing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("put and open", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/one", strings.NewReader("hello")))

		rc, err := store.Open(ctx, "a/one")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/one", strings.NewReader("world")))

		rc, err := store.Open(ctx, "a/one")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "world", string(data))
	})

	t.Run("list", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "a/two", strings.NewReader("2")))
		require.NoError(t, store.Put(ctx, "b/three", strings.NewReader("3")))

		names, err := store.List(ctx, "a/")
		require.NoError(t, err)
		assert.Equal(t, []string{"a/one", "a/two"}, names)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"a/one", "a/two", "b/three"}, all)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a/one"))
		_, err := store.Open(ctx, "a/one")
		require.ErrorIs(t, err, ErrNotFound)

		// Deleting a missing blob is not an error.
		require.NoError(t, store.Delete(ctx, "a/one"))
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	testStore(t, store)
}

func TestMemoryStore_ReaderIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, "blob", strings.NewReader("before")))

	rc, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer rc.Close()

	// Overwriting while a reader is open must not corrupt the open reader.
	require.NoError(t, store.Put(ctx, "blob", strings.NewReader("after!")))

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "before", string(data))
}
