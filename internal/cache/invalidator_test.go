package cache

import "testing"

func TestTrackerMarksAndConsumes(t *testing.T) {
	tr := NewTracker()
	tr.Invalidate("/blog")
	tr.Invalidate("/blog/my-first-post")
	tr.Invalidate("") // ignored

	if !tr.Stale("/blog") {
		t.Fatal("expected /blog to be stale")
	}
	if len(tr.Paths()) != 2 {
		t.Fatalf("expected 2 stale paths, got %v", tr.Paths())
	}
	if !tr.Consume("/blog") {
		t.Fatal("expected consume to report the stale mark")
	}
	if tr.Stale("/blog") {
		t.Fatal("consume should clear the mark")
	}
	if tr.Consume("/blog") {
		t.Fatal("second consume should report clean")
	}
}

func TestFuncAdapter(t *testing.T) {
	var got []string
	inv := Func(func(path string) { got = append(got, path) })
	inv.Invalidate("/projects")
	if len(got) != 1 || got[0] != "/projects" {
		t.Fatalf("unexpected paths: %v", got)
	}
}
