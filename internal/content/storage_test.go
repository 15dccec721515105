package content

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpenPersistentStoreMemory(t *testing.T) {
	st, skipped, err := OpenPersistentStore(context.Background(), NewDefaultRulesEngine(), StorageOptions{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	defer func() { _ = st.Close() }()
	if len(skipped) != 0 {
		t.Fatalf("memory store cannot skip buckets, got %v", skipped)
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	if _, _, err := OpenPersistentStore(context.Background(), NewDefaultRulesEngine(), StorageOptions{Driver: "etcd"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestOpenPersistentStoreSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "content.db")

	st, _, err := OpenPersistentStore(ctx, NewDefaultRulesEngine(), StorageOptions{Driver: DriverSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	svc := NewService(st)
	post, _, err := svc.CreateBlogPost(ctx, validBlogPost())
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := svc.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, skipped, err := OpenPersistentStore(ctx, NewDefaultRulesEngine(), StorageOptions{Driver: DriverSQLite, SQLitePath: path})
	if err != nil {
		t.Fatalf("reopen sqlite store: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped buckets: %v", skipped)
	}

	svc2 := NewService(reopened)
	got, ok := svc2.GetBlogPost(ctx, post.ID)
	if !ok {
		t.Fatalf("expected post %s to survive reopen", post.ID)
	}
	if got.Slug != "my-first-post" {
		t.Fatalf("unexpected slug after reload: %q", got.Slug)
	}
}
