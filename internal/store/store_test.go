package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"contentcore/internal/cache"
	"contentcore/internal/schema"
	"contentcore/pkg/domain"
)

func testCatalog() *Catalog {
	c := NewCatalog()
	RegisterList(c, ListSpec[domain.BlogPost]{
		Entity:  domain.EntityBlogPost,
		Bucket:  "blog",
		Prepend: true,
		Normalize: func(p *domain.BlogPost) {
			if p.Category == "" {
				p.Category = "Tech"
			}
			p.Slug = domain.Slugify(p.Title)
		},
		Validate: func(p *domain.BlogPost) error {
			return schema.Validate(
				schema.Required("title", p.Title),
				schema.OneOf("category", p.Category, domain.BlogCategories),
			)
		},
		Paths: func(p domain.BlogPost) []string {
			return []string{"/blog", "/blog/" + p.Slug, "/admin/blog"}
		},
	})
	RegisterList(c, ListSpec[domain.FAQEntry]{
		Entity: domain.EntityFAQEntry,
		Bucket: "faq",
		Validate: func(f *domain.FAQEntry) error {
			return schema.Validate(
				schema.Required("question", f.Question),
				schema.Required("answer", f.Answer),
			)
		},
	})
	RegisterSingleton(c, SingletonSpec[domain.HomePage]{
		Entity: domain.EntityHomePage,
		Bucket: "home",
		Default: func() domain.HomePage {
			return domain.HomePage{Headline: "Welcome", Tagline: "Portfolio"}
		},
		Validate: func(h *domain.HomePage) error {
			return schema.Validate(schema.Required("headline", h.Headline))
		},
		Paths: func(domain.HomePage) []string { return []string{"/", "/admin/home"} },
	})
	return c
}

func TestCreateAssignsIDAndPrepends(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	var first, second domain.BlogPost
	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		var err error
		first, err = Create(tx, domain.BlogPost{Title: "My First Post", Category: "Tech", Body: "hello"})
		if err != nil {
			return err
		}
		second, err = Create(tx, domain.BlogPost{Title: "Another Post"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if first.ID == "" || second.ID == "" {
		t.Fatal("expected assigned ids")
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be unique, both %q", first.ID)
	}
	if first.Slug != "my-first-post" {
		t.Fatalf("slug = %q, want my-first-post", first.Slug)
	}
	if second.Category != "Tech" {
		t.Fatalf("default category not applied: %q", second.Category)
	}

	posts := ListAll[domain.BlogPost](ctx, s)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	// blog prepends newest-first
	if posts[0].ID != second.ID || posts[1].ID != first.ID {
		t.Fatalf("unexpected order: %s, %s", posts[0].ID, posts[1].ID)
	}
	if posts[1].CreatedAt.IsZero() || posts[1].UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}
}

func TestCreateValidationFailureLeavesCollectionUnchanged(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	_, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := Create(tx, domain.BlogPost{Title: "", Category: "Cooking"})
		return err
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var se *schema.Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *schema.Error, got %T: %v", err, err)
	}
	if !se.Has("title") || !se.Has("category") {
		t.Fatalf("expected title and category failures, got %v", se.Fields)
	}
	if got := len(ListAll[domain.BlogPost](ctx, s)); got != 0 {
		t.Fatalf("collection changed on validation failure: %d records", got)
	}
}

func TestUpdateMergesOverStoredRecord(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	var created domain.BlogPost
	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		var err error
		created, err = Create(tx, domain.BlogPost{
			Title:    "My First Post",
			Category: "Tech",
			Body:     "original body",
			Tags:     []string{"go"},
		})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	var updated domain.BlogPost
	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		var err error
		updated, err = Update(tx, created.ID, func(p *domain.BlogPost) error {
			p.Title = "My Renamed Post"
			return nil
		})
		return err
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Body != "original body" {
		t.Fatalf("untouched field lost: %q", updated.Body)
	}
	if updated.Slug != "my-renamed-post" {
		t.Fatalf("slug not re-derived: %q", updated.Slug)
	}
	if updated.ID != created.ID {
		t.Fatal("id must be immutable")
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Fatal("created_at must survive updates")
	}
	got, ok := Find[domain.BlogPost](ctx, s, created.ID)
	if !ok || got.Title != "My Renamed Post" {
		t.Fatalf("stored record not updated: %+v", got)
	}
}

func TestUpdateMissingIDLeavesCollectionUnchanged(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		for _, q := range []string{"a?", "b?", "c?"} {
			if _, err := Create(tx, domain.FAQEntry{Question: q, Answer: "yes"}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	_, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := Update(tx, "missing", func(f *domain.FAQEntry) error {
			f.Answer = "no"
			return nil
		})
		return err
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found, got %v", err)
	}
	entries := ListAll[domain.FAQEntry](ctx, s)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Answer != "yes" {
			t.Fatalf("record mutated by failed update: %+v", e)
		}
	}
}

func TestDeleteShrinksByExactlyOne(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	var target domain.FAQEntry
	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		var err error
		if _, err = Create(tx, domain.FAQEntry{Question: "keep?", Answer: "yes"}); err != nil {
			return err
		}
		target, err = Create(tx, domain.FAQEntry{Question: "drop?", Answer: "yes"})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		return Delete[domain.FAQEntry](tx, target.ID)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	entries := ListAll[domain.FAQEntry](ctx, s)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == target.ID {
		t.Fatal("deleted record still present")
	}

	_, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		return Delete[domain.FAQEntry](tx, target.ID)
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not-found on second delete, got %v", err)
	}
	if got := len(ListAll[domain.FAQEntry](ctx, s)); got != 1 {
		t.Fatalf("failed delete changed the collection: %d", got)
	}
}

func TestSingletonDefaultAndReplace(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	home := Document[domain.HomePage](ctx, s)
	if home.Headline != "Welcome" {
		t.Fatalf("expected default document, got %+v", home)
	}

	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := PutSingleton(tx, domain.HomePage{Headline: "Hi, I build things", Tagline: "Selected work"})
		return err
	}); err != nil {
		t.Fatalf("put singleton: %v", err)
	}
	home = Document[domain.HomePage](ctx, s)
	if home.Headline != "Hi, I build things" {
		t.Fatalf("document not replaced: %+v", home)
	}
	if home.CreatedAt.IsZero() {
		t.Fatal("created_at not set on first write")
	}

	_, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := PutSingleton(tx, domain.HomePage{Headline: ""})
		return err
	})
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if got := Document[domain.HomePage](ctx, s); got.Headline != "Hi, I build things" {
		t.Fatalf("failed put replaced the document: %+v", got)
	}
}

func TestIDCollisionGetsSuffix(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := New(testCatalog(), nil, WithNow(func() time.Time { return fixed }))
	ctx := context.Background()

	var a, b domain.FAQEntry
	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		var err error
		if a, err = Create(tx, domain.FAQEntry{Question: "a?", Answer: "yes"}); err != nil {
			return err
		}
		b, err = Create(tx, domain.FAQEntry{Question: "b?", Answer: "yes"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	want := fmt.Sprintf("%d", fixed.UnixMilli())
	if a.ID != want {
		t.Fatalf("first id = %q, want %q", a.ID, want)
	}
	if !strings.HasPrefix(b.ID, want+"-") {
		t.Fatalf("second id %q should carry a suffix over %q", b.ID, want)
	}
}

func TestInvalidatorReceivesRoutePaths(t *testing.T) {
	tracker := cache.NewTracker()
	s := New(testCatalog(), nil, WithInvalidator(tracker))
	ctx := context.Background()

	var post domain.BlogPost
	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		var err error
		post, err = Create(tx, domain.BlogPost{Title: "My First Post", Category: "Tech"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, path := range []string{"/blog", "/blog/my-first-post", "/admin/blog"} {
		if !tracker.Stale(path) {
			t.Fatalf("expected %s stale after write, have %v", path, tracker.Paths())
		}
	}

	// Deletes invalidate using the removed record's paths.
	tracker.Consume("/blog/my-first-post")
	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		return Delete[domain.BlogPost](tx, post.ID)
	}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !tracker.Stale("/blog/my-first-post") {
		t.Fatal("expected detail path stale after delete")
	}
}

func TestFailedTransactionFiresNoInvalidation(t *testing.T) {
	tracker := cache.NewTracker()
	s := New(testCatalog(), nil, WithInvalidator(tracker))

	_, err := s.RunInTransaction(context.Background(), func(tx *Tx) error {
		if _, err := Create(tx, domain.BlogPost{Title: "Ghost", Category: "Tech"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}
	if len(tracker.Paths()) != 0 {
		t.Fatalf("aborted transaction invalidated paths: %v", tracker.Paths())
	}
}

type blockEverything struct{}

func (blockEverything) Name() string { return "block_everything" }

func (blockEverything) Evaluate(_ context.Context, _ domain.RuleView, changes []domain.Change) (domain.Result, error) {
	if len(changes) == 0 {
		return domain.Result{}, nil
	}
	return domain.Result{Violations: []domain.Violation{{
		Rule:     "block_everything",
		Severity: domain.SeverityBlock,
		Message:  "no writes allowed",
	}}}, nil
}

func TestBlockingRuleAbortsCommit(t *testing.T) {
	engine := domain.NewRulesEngine()
	engine.Register(blockEverything{})
	s := New(testCatalog(), engine)
	ctx := context.Background()

	res, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := Create(tx, domain.FAQEntry{Question: "q?", Answer: "a"})
		return err
	})
	var rve domain.RuleViolationError
	if !errors.As(err, &rve) {
		t.Fatalf("expected RuleViolationError, got %v", err)
	}
	if !res.HasBlocking() {
		t.Fatal("expected blocking violations in result")
	}
	if got := len(ListAll[domain.FAQEntry](ctx, s)); got != 0 {
		t.Fatalf("blocked transaction committed: %d records", got)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		if _, err := Create(tx, domain.BlogPost{Title: "My First Post", Category: "Tech"}); err != nil {
			return err
		}
		if _, err := Create(tx, domain.BlogPost{Title: "Second", Category: "Design"}); err != nil {
			return err
		}
		_, err := PutSingleton(tx, domain.HomePage{Headline: "Hello"})
		return err
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snapshot := s.ExportState()
	if _, ok := snapshot["blog"]; !ok {
		t.Fatalf("snapshot missing blog bucket: %v", snapshot)
	}

	restored := New(testCatalog(), nil)
	if skipped := restored.ImportState(snapshot); len(skipped) != 0 {
		t.Fatalf("unexpected skipped buckets: %v", skipped)
	}
	posts := ListAll[domain.BlogPost](ctx, restored)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts after import, got %d", len(posts))
	}
	if posts[0].Title != "Second" {
		t.Fatalf("order lost on round trip: %+v", posts)
	}
	if got := Document[domain.HomePage](ctx, restored); got.Headline != "Hello" {
		t.Fatalf("singleton lost on round trip: %+v", got)
	}
}

func TestImportSkipsMalformedBuckets(t *testing.T) {
	s := New(testCatalog(), nil)
	snapshot := Snapshot{
		"blog": json.RawMessage(`{not json`),
		"faq":  json.RawMessage(`[{"id":"1","question":"q?","answer":"a"}]`),
	}
	skipped := s.ImportState(snapshot)
	if len(skipped) != 1 || skipped[0] != "blog" {
		t.Fatalf("expected blog skipped, got %v", skipped)
	}
	ctx := context.Background()
	if got := len(ListAll[domain.BlogPost](ctx, s)); got != 0 {
		t.Fatalf("malformed bucket should read as empty, got %d", got)
	}
	if got := len(ListAll[domain.FAQEntry](ctx, s)); got != 1 {
		t.Fatalf("healthy bucket lost: %d", got)
	}
}

func TestExplicitIDConflictRejected(t *testing.T) {
	s := New(testCatalog(), nil)
	ctx := context.Background()

	if _, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := Create(tx, domain.FAQEntry{Base: domain.Base{ID: "seed-1"}, Question: "q?", Answer: "a"})
		return err
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := s.RunInTransaction(ctx, func(tx *Tx) error {
		_, err := Create(tx, domain.FAQEntry{Base: domain.Base{ID: "seed-1"}, Question: "dup?", Answer: "a"})
		return err
	})
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already-exists error, got %v", err)
	}
}
