package content

import (
	"context"
	"testing"

	"contentcore/pkg/domain"
)

type stubView struct {
	records map[domain.EntityType][]any
}

func (v stubView) List(entity domain.EntityType) []any {
	return v.records[entity]
}

func (v stubView) Find(entity domain.EntityType, id string) (any, bool) {
	for _, raw := range v.records[entity] {
		if rec, ok := raw.(interface{ RecordID() string }); ok && rec.RecordID() == id {
			return raw, true
		}
	}
	return nil, false
}

func planWithID(id string) domain.SubscriptionPlan {
	plan := domain.SubscriptionPlan{Name: "Supporter", PriceCents: 500, Interval: domain.IntervalMonthly}
	plan.ID = id
	return plan
}

func userOnPlan(id, planID string) domain.UserAccount {
	user := domain.UserAccount{Email: "reader@example.com", DisplayName: "Reader"}
	user.ID = id
	if planID != "" {
		user.PlanID = &planID
	}
	return user
}

func TestPlanReferenceBlocksMissingPlan(t *testing.T) {
	view := stubView{records: map[domain.EntityType][]any{
		domain.EntityUserAccount: {userOnPlan("u1", "ghost")},
	}}

	res, err := PlanReferenceRule().Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected blocking violation for dangling plan reference, got %+v", res.Violations)
	}
	if res.Violations[0].EntityID != "u1" {
		t.Fatalf("expected violation against user u1, got %s", res.Violations[0].EntityID)
	}
}

func TestPlanReferenceBlocksDeletingSubscribedPlan(t *testing.T) {
	view := stubView{records: map[domain.EntityType][]any{
		domain.EntitySubscriptionPlan: {planWithID("p1")},
		domain.EntityUserAccount:      {userOnPlan("u1", "p1")},
	}}
	changes := []domain.Change{{
		Entity: domain.EntitySubscriptionPlan,
		Action: domain.ActionDelete,
		Before: planWithID("p1"),
	}}

	res, err := PlanReferenceRule().Evaluate(context.Background(), view, changes)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected delete of subscribed plan to block")
	}
}

func TestPlanReferenceAllowsCleanState(t *testing.T) {
	view := stubView{records: map[domain.EntityType][]any{
		domain.EntitySubscriptionPlan: {planWithID("p1")},
		domain.EntityUserAccount:      {userOnPlan("u1", "p1"), userOnPlan("u2", "")},
	}}

	res, err := PlanReferenceRule().Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 0 {
		t.Fatalf("expected no violations, got %+v", res.Violations)
	}
}

func TestFeaturedHomeProjectsWarnsOnMissingProject(t *testing.T) {
	project := domain.Project{Title: "Tracker", Summary: "CLI tracker", Category: "Web"}
	project.ID = "pr1"
	home := domain.HomePage{Headline: "Welcome", Tagline: "Portfolio", FeaturedProjectIDs: []string{"pr1", "gone"}}

	view := stubView{records: map[domain.EntityType][]any{
		domain.EntityProject:  {project},
		domain.EntityHomePage: {home},
	}}

	res, err := FeaturedHomeProjectsRule().Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 1 {
		t.Fatalf("expected one violation, got %+v", res.Violations)
	}
	if res.Violations[0].Severity != domain.SeverityWarn {
		t.Fatalf("expected warn severity, got %s", res.Violations[0].Severity)
	}
	if res.HasBlocking() {
		t.Fatalf("broken feature slots must not block")
	}
}

func TestPremiumPricingBlocksFreePremiumItem(t *testing.T) {
	item := domain.LibraryItem{Title: "Deep Work", Author: "Cal Newport", Category: "Book", Premium: true}
	item.ID = "li1"

	view := stubView{records: map[domain.EntityType][]any{
		domain.EntityLibraryItem: {item},
	}}

	res, err := PremiumPricingRule().Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !res.HasBlocking() {
		t.Fatalf("expected premium item without price to block")
	}
}
