package schema

import (
	"errors"
	"testing"
)

func TestValidateAccumulatesEveryFailure(t *testing.T) {
	err := Validate(
		Required("title", ""),
		Required("body", "present"),
		URL("cover_url", "not a url"),
		OneOf("category", "Cooking", []string{"Tech", "Design"}),
		Positive("price_cents", 0),
	)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("expected *schema.Error, got %T", err)
	}
	if len(se.Fields) != 4 {
		t.Fatalf("expected 4 field errors, got %d: %v", len(se.Fields), se.Fields)
	}
	for _, field := range []string{"title", "cover_url", "category", "price_cents"} {
		if !se.Has(field) {
			t.Fatalf("expected failure for %s, got %v", field, se.Fields)
		}
	}
	if se.Has("body") {
		t.Fatal("body should have passed")
	}
}

func TestValidatePassesCleanRecord(t *testing.T) {
	if err := Validate(
		Required("title", "My First Post"),
		MinLen("title", "My First Post", 3),
		URL("cover_url", "https://example.com/cover.png"),
		OneOf("category", "Tech", []string{"Tech", "Design"}),
		NonEmptyList("tags", []string{"go", "testing"}),
	); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestURLCheck(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"", true}, // optional unless Required is combined
		{"https://example.com/p", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"example.com/no-scheme", false},
		{"https://", false},
	}
	for _, tc := range cases {
		err := Validate(URL("u", tc.value))
		if tc.ok && err != nil {
			t.Fatalf("URL(%q) unexpectedly failed: %v", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("URL(%q) unexpectedly passed", tc.value)
		}
	}
}

func TestEmailCheck(t *testing.T) {
	cases := []struct {
		value string
		ok    bool
	}{
		{"reader@example.com", true},
		{"no-at-sign", false},
		{"@example.com", false},
		{"user@localhost", false},
		{"user@", false},
	}
	for _, tc := range cases {
		err := Validate(Email("email", tc.value))
		if tc.ok && err != nil {
			t.Fatalf("Email(%q) unexpectedly failed: %v", tc.value, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("Email(%q) unexpectedly passed", tc.value)
		}
	}
}

func TestNonEmptyListRejectsBlankEntries(t *testing.T) {
	if err := Validate(NonEmptyList("features", []string{"fast", "  "})); err == nil {
		t.Fatal("expected blank entry to fail")
	}
	if err := Validate(NonEmptyList("features", nil)); err == nil {
		t.Fatal("expected empty list to fail")
	}
}
