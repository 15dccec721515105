package content

import (
	"context"
	"fmt"

	"contentcore/pkg/domain"
)

// NewDefaultRulesEngine returns an engine loaded with the stock content rules.
func NewDefaultRulesEngine() *domain.RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(PlanReferenceRule())
	engine.Register(FeaturedHomeProjectsRule())
	engine.Register(PremiumPricingRule())
	return engine
}

// PlanReferenceRule enforces subscription integrity: a subscribed user must
// reference an existing plan, and a plan with active subscribers cannot be
// deleted.
func PlanReferenceRule() domain.Rule {
	return planReferenceRule{}
}

type planReferenceRule struct{}

func (planReferenceRule) Name() string { return "plan_reference" }

func (planReferenceRule) Evaluate(_ context.Context, view domain.RuleView, changes []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	plans := make(map[string]domain.SubscriptionPlan)
	for _, raw := range view.List(domain.EntitySubscriptionPlan) {
		if plan, ok := raw.(domain.SubscriptionPlan); ok {
			plans[plan.ID] = plan
		}
	}

	subscribers := make(map[string][]string)
	for _, raw := range view.List(domain.EntityUserAccount) {
		user, ok := raw.(domain.UserAccount)
		if !ok || user.PlanID == nil {
			continue
		}
		planID := *user.PlanID
		subscribers[planID] = append(subscribers[planID], user.ID)
		if _, exists := plans[planID]; !exists {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "plan_reference",
				Severity: domain.SeverityBlock,
				Entity:   domain.EntityUserAccount,
				EntityID: user.ID,
				Message:  fmt.Sprintf("user %s references missing plan %s", user.ID, planID),
			})
		}
	}

	for _, change := range changes {
		if change.Entity != domain.EntitySubscriptionPlan || change.Action != domain.ActionDelete {
			continue
		}
		plan, ok := change.Before.(domain.SubscriptionPlan)
		if !ok {
			continue
		}
		if ids := subscribers[plan.ID]; len(ids) > 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "plan_reference",
				Severity: domain.SeverityBlock,
				Entity:   domain.EntitySubscriptionPlan,
				EntityID: plan.ID,
				Message:  fmt.Sprintf("plan %s still has %d active subscriber(s)", plan.ID, len(ids)),
			})
		}
	}

	return res, nil
}

// FeaturedHomeProjectsRule warns when the home page features a project id
// that no longer resolves. Rendering degrades to an empty slot, so the
// violation does not block.
func FeaturedHomeProjectsRule() domain.Rule {
	return featuredHomeProjectsRule{}
}

type featuredHomeProjectsRule struct{}

func (featuredHomeProjectsRule) Name() string { return "featured_home_projects" }

func (featuredHomeProjectsRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	docs := view.List(domain.EntityHomePage)
	if len(docs) == 0 {
		return res, nil
	}
	home, ok := docs[0].(domain.HomePage)
	if !ok {
		return res, nil
	}

	for _, projectID := range home.FeaturedProjectIDs {
		if projectID == "" {
			continue
		}
		if _, found := view.Find(domain.EntityProject, projectID); !found {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "featured_home_projects",
				Severity: domain.SeverityWarn,
				Entity:   domain.EntityHomePage,
				EntityID: home.ID,
				Message:  fmt.Sprintf("home page features missing project %s", projectID),
			})
		}
	}

	return res, nil
}

// PremiumPricingRule blocks premium library items without a positive price.
func PremiumPricingRule() domain.Rule {
	return premiumPricingRule{}
}

type premiumPricingRule struct{}

func (premiumPricingRule) Name() string { return "premium_pricing" }

func (premiumPricingRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}

	for _, raw := range view.List(domain.EntityLibraryItem) {
		item, ok := raw.(domain.LibraryItem)
		if !ok {
			continue
		}
		if item.Premium && item.PriceCents <= 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "premium_pricing",
				Severity: domain.SeverityBlock,
				Entity:   domain.EntityLibraryItem,
				EntityID: item.ID,
				Message:  fmt.Sprintf("premium item %s must carry a positive price", item.ID),
			})
		}
	}

	return res, nil
}
