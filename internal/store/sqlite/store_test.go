package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"contentcore/internal/schema"
	"contentcore/internal/store"
	"contentcore/pkg/domain"
)

func blogCatalog() *store.Catalog {
	c := store.NewCatalog()
	store.RegisterList(c, store.ListSpec[domain.BlogPost]{
		Entity:  domain.EntityBlogPost,
		Bucket:  "blog",
		Prepend: true,
		Normalize: func(p *domain.BlogPost) {
			p.Slug = domain.Slugify(p.Title)
		},
		Validate: func(p *domain.BlogPost) error {
			return schema.Validate(schema.Required("title", p.Title))
		},
	})
	return c
}

func TestStatePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	ctx := context.Background()

	s, skipped, err := New(path, nil, blogCatalog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("fresh database skipped buckets: %v", skipped)
	}
	var created domain.BlogPost
	if _, err := s.RunInTransaction(ctx, func(tx *store.Tx) error {
		created, err = store.Create(tx, domain.BlogPost{Title: "My First Post", Category: "Tech"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, skipped, err := New(path, nil, blogCatalog())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if len(skipped) != 0 {
		t.Fatalf("reopen skipped buckets: %v", skipped)
	}
	posts := store.ListAll[domain.BlogPost](ctx, reopened)
	if len(posts) != 1 || posts[0].ID != created.ID || posts[0].Slug != "my-first-post" {
		t.Fatalf("state lost across reopen: %+v", posts)
	}
}

func TestUpdateMissingIDLeavesDiskUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	ctx := context.Background()

	s, _, err := New(path, nil, blogCatalog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.RunInTransaction(ctx, func(tx *store.Tx) error {
		for _, title := range []string{"One", "Two", "Three"} {
			if _, err := store.Create(tx, domain.BlogPost{Title: title}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err = s.RunInTransaction(ctx, func(tx *store.Tx) error {
		_, err := store.Update(tx, "missing", func(p *domain.BlogPost) error {
			p.Title = "Renamed"
			return nil
		})
		return err
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, _, err := New(path, nil, blogCatalog())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	posts := store.ListAll[domain.BlogPost](ctx, reopened)
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts on disk, got %d", len(posts))
	}
	for _, p := range posts {
		if p.Title == "Renamed" {
			t.Fatalf("failed update reached disk: %+v", p)
		}
	}
}

func TestPersistFailureSurfacesAsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	s, _, err := New(path, nil, blogCatalog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	// Closing the database underneath the store makes the post-commit
	// snapshot fail; the store call must return the error, not panic.
	if err := s.DB().Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}
	_, err = s.RunInTransaction(context.Background(), func(tx *store.Tx) error {
		_, err := store.Create(tx, domain.BlogPost{Title: "Doomed"})
		return err
	})
	if err == nil {
		t.Fatal("expected persistence error")
	}
}

func TestCorruptBucketDegradesToEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.db")
	ctx := context.Background()

	s, _, err := New(path, nil, blogCatalog())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.RunInTransaction(ctx, func(tx *store.Tx) error {
		_, err := store.Create(tx, domain.BlogPost{Title: "My First Post"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.DB().Exec(`UPDATE content SET payload = ? WHERE bucket = 'blog'`, []byte(`{broken`)); err != nil {
		t.Fatalf("corrupt bucket: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, skipped, err := New(path, nil, blogCatalog())
	if err != nil {
		t.Fatalf("reopen after corruption: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if len(skipped) != 1 || skipped[0] != "blog" {
		t.Fatalf("expected blog reported skipped, got %v", skipped)
	}
	if got := len(store.ListAll[domain.BlogPost](ctx, reopened)); got != 0 {
		t.Fatalf("corrupt bucket should read as empty, got %d records", got)
	}
}
