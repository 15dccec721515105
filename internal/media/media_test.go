package media

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, DriverFilesystem, store.Driver())

	info, err := store.Put(ctx, "projects/cover.png", strings.NewReader("fake-png-bytes"), PutOptions{
		Metadata: map[string]string{"entity": "project"},
	})
	require.NoError(t, err)
	require.Equal(t, int64(len("fake-png-bytes")), info.Size)
	require.Equal(t, "image/png", info.ContentType)
	require.NotEmpty(t, info.ETag)

	got, rc, err := store.Get(ctx, "projects/cover.png")
	require.NoError(t, err)
	defer func() { require.NoError(t, rc.Close()) }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "fake-png-bytes", string(data))
	require.Equal(t, info.ETag, got.ETag)
	require.Equal(t, "project", got.Metadata["entity"])
}

func TestFilesystemPutIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(ctx, "art/scan.jpg", strings.NewReader("one"), PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, "art/scan.jpg", strings.NewReader("two"), PutOptions{})
	require.ErrorContains(t, err, "already exists")
}

func TestFilesystemRejectsTraversalKeys(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystem(root)
	require.NoError(t, err)

	for _, key := range []string{"", "  ", "../escape", "/abs", "a/../../b"} {
		_, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		require.Error(t, err, "key %q must be rejected", key)
	}

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestFilesystemDeleteRemovesSidecar(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewFilesystem(root)
	require.NoError(t, err)

	_, err = store.Put(ctx, "covers/book.jpg", strings.NewReader("cover"), PutOptions{})
	require.NoError(t, err)

	existed, err := store.Delete(ctx, "covers/book.jpg")
	require.NoError(t, err)
	require.True(t, existed)

	_, statErr := os.Stat(filepath.Join(root, "covers", "book.jpg.meta"))
	require.True(t, os.IsNotExist(statErr))

	existed, err = store.Delete(ctx, "covers/book.jpg")
	require.NoError(t, err)
	require.False(t, existed)
}

func TestFilesystemListFiltersPrefix(t *testing.T) {
	ctx := context.Background()
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"projects/a.png", "projects/b.png", "library/c.jpg"} {
		_, err := store.Put(ctx, key, strings.NewReader("x"), PutOptions{})
		require.NoError(t, err)
	}

	infos, err := store.List(ctx, "projects/")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	require.Equal(t, "projects/a.png", infos[0].Key)
}

func TestMemoryStoreBasics(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()
	require.Equal(t, DriverMemory, store.Driver())

	_, err := store.Put(ctx, "x.txt", strings.NewReader("hello"), PutOptions{})
	require.NoError(t, err)
	_, err = store.Put(ctx, "x.txt", strings.NewReader("again"), PutOptions{})
	require.ErrorContains(t, err, "already exists")

	info, err := store.Head(ctx, "x.txt")
	require.NoError(t, err)
	require.Equal(t, int64(5), info.Size)
	require.Equal(t, "text/plain; charset=utf-8", info.ContentType)

	_, err = store.PresignURL(ctx, "x.txt", SignedURLOptions{})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	require.Equal(t, DriverMemory, store.Driver())

	store, err = Open(ctx, Options{FSRoot: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, DriverFilesystem, store.Driver())

	_, err = Open(ctx, Options{Driver: "ftp"})
	require.ErrorContains(t, err, "unknown media driver")

	_, err = Open(ctx, Options{Driver: DriverS3})
	require.ErrorContains(t, err, "bucket required")
}
