// Package gentext drafts marketing copy for content records. Generated text
// is an optional prefill the author edits before saving.
package gentext

import (
	"context"
	"fmt"
	"strings"
)

// Request names the thing to describe and any raw details to work from.
type Request struct {
	Name    string
	Details []string
}

// Generator produces a short description for a request.
type Generator interface {
	Describe(ctx context.Context, req Request) (string, error)
}

// TemplateGenerator produces deterministic copy offline. It is the default
// when no API key is configured.
type TemplateGenerator struct{}

// NewTemplateGenerator returns the offline generator.
func NewTemplateGenerator() TemplateGenerator { return TemplateGenerator{} }

// Describe implements Generator.
func (TemplateGenerator) Describe(_ context.Context, req Request) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("name required")
	}
	var details []string
	for _, d := range req.Details {
		if d = strings.TrimSpace(d); d != "" {
			details = append(details, d)
		}
	}
	if len(details) == 0 {
		return fmt.Sprintf("%s is a personal project. More details coming soon.", name), nil
	}
	return fmt.Sprintf("%s is a personal project. Highlights: %s.", name, strings.Join(details, "; ")), nil
}
