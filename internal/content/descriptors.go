// Package content wires the portfolio entities into the generic store: the
// descriptor catalog, the cross-entity rules, and the Service facade that
// instruments every operation.
package content

import (
	"strings"

	"contentcore/internal/schema"
	"contentcore/internal/store"
	"contentcore/pkg/domain"
)

// Bucket names double as snapshot keys and seed/export file stems.
const (
	BucketBlog         = "blog"
	BucketProjects     = "projects"
	BucketAchievements = "achievements"
	BucketExperience   = "experience"
	BucketLibrary      = "library"
	BucketArtworks     = "artworks"
	BucketJournal      = "journal"
	BucketFAQ          = "faq"
	BucketSocial       = "social"
	BucketPlans        = "plans"
	BucketUsers        = "users"
	BucketHome         = "home"
	BucketAbout        = "about"
	BucketPayment      = "payment"
)

// DefaultCatalog registers every portfolio entity. Blog posts, journal
// posts, and achievements surface newest-first; the remaining collections
// keep insertion order.
func DefaultCatalog() *store.Catalog {
	c := store.NewCatalog()

	store.RegisterList(c, store.ListSpec[domain.BlogPost]{
		Entity:  domain.EntityBlogPost,
		Bucket:  BucketBlog,
		Prepend: true,
		Normalize: func(p *domain.BlogPost) {
			p.Title = strings.TrimSpace(p.Title)
			p.Slug = domain.Slugify(p.Title)
		},
		Validate: func(p *domain.BlogPost) error {
			return schema.Validate(
				schema.Required("title", p.Title),
				schema.Required("excerpt", p.Excerpt),
				schema.Required("body", p.Body),
				schema.MinLen("body", p.Body, 10),
				schema.OneOf("category", p.Category, domain.BlogCategories),
				schema.URL("cover_url", p.CoverURL),
			)
		},
		Paths: func(p domain.BlogPost) []string {
			return []string{"/blog", "/blog/" + p.Slug, "/admin/blog"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.Project]{
		Entity: domain.EntityProject,
		Bucket: BucketProjects,
		Normalize: func(p *domain.Project) {
			p.Title = strings.TrimSpace(p.Title)
			p.Slug = domain.Slugify(p.Title)
		},
		Validate: func(p *domain.Project) error {
			return schema.Validate(
				schema.Required("title", p.Title),
				schema.Required("summary", p.Summary),
				schema.OneOf("category", p.Category, domain.ProjectCategories),
				schema.URL("repo_url", p.RepoURL),
				schema.URL("live_url", p.LiveURL),
				schema.URL("image_url", p.ImageURL),
				schema.NonEmptyList("tech_stack", p.TechStack),
			)
		},
		Paths: func(p domain.Project) []string {
			return []string{"/projects", "/projects/" + p.Slug, "/admin/projects"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.Achievement]{
		Entity:  domain.EntityAchievement,
		Bucket:  BucketAchievements,
		Prepend: true,
		Normalize: func(a *domain.Achievement) {
			a.Title = strings.TrimSpace(a.Title)
		},
		Validate: func(a *domain.Achievement) error {
			return schema.Validate(
				schema.Required("title", a.Title),
				schema.Required("organization", a.Organization),
				schema.Required("date", a.Date),
				schema.URL("image_url", a.ImageURL),
			)
		},
		Paths: func(domain.Achievement) []string {
			return []string{"/achievements", "/admin/achievements"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.Experience]{
		Entity: domain.EntityExperience,
		Bucket: BucketExperience,
		Normalize: func(e *domain.Experience) {
			e.Role = strings.TrimSpace(e.Role)
			e.Company = strings.TrimSpace(e.Company)
		},
		Validate: func(e *domain.Experience) error {
			return schema.Validate(
				schema.Required("role", e.Role),
				schema.Required("company", e.Company),
				schema.Required("start_date", e.StartDate),
				schema.NonEmptyList("highlights", e.Highlights),
			)
		},
		Paths: func(domain.Experience) []string {
			return []string{"/experience", "/admin/experience"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.LibraryItem]{
		Entity: domain.EntityLibraryItem,
		Bucket: BucketLibrary,
		Normalize: func(i *domain.LibraryItem) {
			i.Title = strings.TrimSpace(i.Title)
			i.Slug = domain.Slugify(i.Title)
			if !i.Premium {
				i.PriceCents = 0
			}
		},
		Validate: func(i *domain.LibraryItem) error {
			checks := []schema.Check{
				schema.Required("title", i.Title),
				schema.Required("author", i.Author),
				schema.OneOf("category", i.Category, domain.LibraryCategories),
				schema.URL("cover_url", i.CoverURL),
			}
			if i.Premium {
				checks = append(checks, schema.Positive("price_cents", i.PriceCents))
			}
			return schema.Validate(checks...)
		},
		Paths: func(i domain.LibraryItem) []string {
			return []string{"/library", "/library/" + i.Slug, "/admin/library"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.VisualArtwork]{
		Entity: domain.EntityVisualArtwork,
		Bucket: BucketArtworks,
		Normalize: func(a *domain.VisualArtwork) {
			a.Title = strings.TrimSpace(a.Title)
		},
		Validate: func(a *domain.VisualArtwork) error {
			return schema.Validate(
				schema.Required("title", a.Title),
				schema.Required("medium", a.Medium),
				schema.Required("image_url", a.ImageURL),
				schema.URL("image_url", a.ImageURL),
			)
		},
		Paths: func(domain.VisualArtwork) []string {
			return []string{"/visual-arts", "/admin/visual-arts"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.JournalPost]{
		Entity:  domain.EntityJournalPost,
		Bucket:  BucketJournal,
		Prepend: true,
		Normalize: func(p *domain.JournalPost) {
			p.Title = strings.TrimSpace(p.Title)
			p.Slug = domain.Slugify(p.Title)
			if p.Language == "" {
				p.Language = "en"
			}
			if p.Likes < 0 {
				p.Likes = 0
			}
		},
		Validate: func(p *domain.JournalPost) error {
			return schema.Validate(
				schema.Required("title", p.Title),
				schema.Required("body", p.Body),
				schema.MinLen("body", p.Body, 10),
			)
		},
		Paths: func(p domain.JournalPost) []string {
			return []string{"/journal", "/journal/" + p.Slug, "/admin/journal"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.FAQEntry]{
		Entity: domain.EntityFAQEntry,
		Bucket: BucketFAQ,
		Normalize: func(e *domain.FAQEntry) {
			e.Question = strings.TrimSpace(e.Question)
		},
		Validate: func(e *domain.FAQEntry) error {
			return schema.Validate(
				schema.Required("question", e.Question),
				schema.Required("answer", e.Answer),
			)
		},
		Paths: func(domain.FAQEntry) []string {
			return []string{"/faq", "/admin/faq"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.SocialInitiative]{
		Entity: domain.EntitySocialInitiative,
		Bucket: BucketSocial,
		Normalize: func(s *domain.SocialInitiative) {
			s.Title = strings.TrimSpace(s.Title)
		},
		Validate: func(s *domain.SocialInitiative) error {
			checks := []schema.Check{
				schema.Required("title", s.Title),
				schema.Required("organization", s.Organization),
				schema.Required("description", s.Description),
				schema.URL("image_url", s.ImageURL),
			}
			for _, link := range s.Links {
				checks = append(checks, schema.URL("links", link))
			}
			return schema.Validate(checks...)
		},
		Paths: func(domain.SocialInitiative) []string {
			return []string{"/social", "/admin/social"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.SubscriptionPlan]{
		Entity: domain.EntitySubscriptionPlan,
		Bucket: BucketPlans,
		Normalize: func(p *domain.SubscriptionPlan) {
			p.Name = strings.TrimSpace(p.Name)
			if p.Interval == "" {
				p.Interval = domain.IntervalMonthly
			}
		},
		Validate: func(p *domain.SubscriptionPlan) error {
			return schema.Validate(
				schema.Required("name", p.Name),
				schema.Positive("price_cents", p.PriceCents),
				schema.OneOf("interval", string(p.Interval), []string{string(domain.IntervalMonthly), string(domain.IntervalYearly)}),
				schema.NonEmptyList("features", p.Features),
			)
		},
		Paths: func(domain.SubscriptionPlan) []string {
			return []string{"/subscribe", "/admin/plans"}
		},
	})

	store.RegisterList(c, store.ListSpec[domain.UserAccount]{
		Entity: domain.EntityUserAccount,
		Bucket: BucketUsers,
		Normalize: func(u *domain.UserAccount) {
			u.Email = strings.ToLower(strings.TrimSpace(u.Email))
			u.DisplayName = strings.TrimSpace(u.DisplayName)
		},
		Validate: func(u *domain.UserAccount) error {
			return schema.Validate(
				schema.Email("email", u.Email),
				schema.Required("display_name", u.DisplayName),
			)
		},
		Paths: func(domain.UserAccount) []string {
			return []string{"/admin/users"}
		},
	})

	store.RegisterSingleton(c, store.SingletonSpec[domain.HomePage]{
		Entity: domain.EntityHomePage,
		Bucket: BucketHome,
		Default: func() domain.HomePage {
			return domain.HomePage{
				Headline: "Welcome",
				Tagline:  "Personal portfolio",
			}
		},
		Normalize: func(h *domain.HomePage) {
			h.Headline = strings.TrimSpace(h.Headline)
		},
		Validate: func(h *domain.HomePage) error {
			return schema.Validate(
				schema.Required("headline", h.Headline),
				schema.Required("tagline", h.Tagline),
				schema.URL("hero_image_url", h.HeroImageURL),
			)
		},
		Paths: func(domain.HomePage) []string {
			return []string{"/", "/admin/home"}
		},
	})

	store.RegisterSingleton(c, store.SingletonSpec[domain.AboutPage]{
		Entity: domain.EntityAboutPage,
		Bucket: BucketAbout,
		Default: func() domain.AboutPage {
			return domain.AboutPage{
				Heading: "About me",
				Bio:     "This page has not been written yet.",
			}
		},
		Normalize: func(a *domain.AboutPage) {
			a.Heading = strings.TrimSpace(a.Heading)
		},
		Validate: func(a *domain.AboutPage) error {
			return schema.Validate(
				schema.Required("heading", a.Heading),
				schema.Required("bio", a.Bio),
				schema.URL("portrait_url", a.PortraitURL),
			)
		},
		Paths: func(domain.AboutPage) []string {
			return []string{"/about", "/admin/about"}
		},
	})

	store.RegisterSingleton(c, store.SingletonSpec[domain.PaymentSettings]{
		Entity: domain.EntityPaymentSettings,
		Bucket: BucketPayment,
		Default: func() domain.PaymentSettings {
			return domain.PaymentSettings{
				Currency:         "USD",
				MockGatewayLabel: "Demo Checkout",
				SuccessMessage:   "Thanks for subscribing!",
			}
		},
		Normalize: func(p *domain.PaymentSettings) {
			p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
			if p.Currency == "" {
				p.Currency = "USD"
			}
		},
		Validate: func(p *domain.PaymentSettings) error {
			return schema.Validate(
				schema.OneOf("currency", p.Currency, domain.Currencies),
				schema.Required("mock_gateway_label", p.MockGatewayLabel),
			)
		},
		Paths: func(domain.PaymentSettings) []string {
			return []string{"/subscribe", "/admin/payment"}
		},
	})

	return c
}
