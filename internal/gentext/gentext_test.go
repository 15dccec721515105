package gentext

import (
	"context"
	"strings"
	"testing"
)

func TestTemplateGeneratorWithDetails(t *testing.T) {
	gen := NewTemplateGenerator()

	text, err := gen.Describe(context.Background(), Request{
		Name:    "Link Shortener",
		Details: []string{"Go backend", " sub-ms redirects ", ""},
	})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.HasPrefix(text, "Link Shortener is a personal project.") {
		t.Fatalf("unexpected text: %q", text)
	}
	if !strings.Contains(text, "Go backend; sub-ms redirects") {
		t.Fatalf("expected trimmed details joined, got %q", text)
	}
}

func TestTemplateGeneratorWithoutDetails(t *testing.T) {
	gen := NewTemplateGenerator()

	text, err := gen.Describe(context.Background(), Request{Name: "Sketchbook"})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if !strings.Contains(text, "More details coming soon") {
		t.Fatalf("unexpected fallback text: %q", text)
	}
}

func TestTemplateGeneratorRequiresName(t *testing.T) {
	gen := NewTemplateGenerator()
	if _, err := gen.Describe(context.Background(), Request{Name: "   "}); err == nil {
		t.Fatalf("expected error for blank name")
	}
}

func TestGeminiGeneratorRequiresKey(t *testing.T) {
	if _, err := NewGeminiGenerator(context.Background(), "", ""); err == nil {
		t.Fatalf("expected missing key error")
	}
}
