// Package domain defines the persistent content entities, value types, and
// rule evaluation primitives used by contentcore.
package domain

import "time"

// EntityType identifies the type of record stored in a content collection.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityBlogPost identifies a blog post record.
	EntityBlogPost EntityType = "blog_post"
	// EntityProject identifies a portfolio project record.
	EntityProject EntityType = "project"
	// EntityAchievement identifies an achievement record.
	EntityAchievement EntityType = "achievement"
	// EntityExperience identifies a work experience record.
	EntityExperience EntityType = "experience"
	// EntityLibraryItem identifies a library item record.
	EntityLibraryItem EntityType = "library_item"
	// EntityVisualArtwork identifies a visual artwork record.
	EntityVisualArtwork EntityType = "visual_artwork"
	// EntityJournalPost identifies a personal journal post record.
	EntityJournalPost EntityType = "journal_post"
	// EntityFAQEntry identifies a FAQ entry record.
	EntityFAQEntry EntityType = "faq_entry"
	// EntitySocialInitiative identifies a social initiative record.
	EntitySocialInitiative EntityType = "social_initiative"
	// EntitySubscriptionPlan identifies a subscription plan record.
	EntitySubscriptionPlan EntityType = "subscription_plan"
	// EntityUserAccount identifies a registered user account record.
	EntityUserAccount EntityType = "user_account"
	// EntityHomePage identifies the singleton home page document.
	EntityHomePage EntityType = "home_page"
	// EntityAboutPage identifies the singleton about page document.
	EntityAboutPage EntityType = "about_page"
	// EntityPaymentSettings identifies the singleton payment settings document.
	EntityPaymentSettings EntityType = "payment_settings"
)

// PlanInterval enumerates subscription billing intervals.
type PlanInterval string

// Canonical billing intervals for subscription plans.
const (
	IntervalMonthly PlanInterval = "monthly"
	IntervalYearly  PlanInterval = "yearly"
)

// BlogCategories is the fixed set of categories a blog post may carry.
var BlogCategories = []string{"Tech", "Design", "Life", "Travel", "Writing"}

// ProjectCategories is the fixed set of categories a project may carry.
var ProjectCategories = []string{"Web", "Mobile", "AI", "Open Source", "Research"}

// LibraryCategories is the fixed set of categories a library item may carry.
var LibraryCategories = []string{"Book", "Paper", "Course", "Article"}

// Currencies lists the checkout currencies the mock gateway accepts.
var Currencies = []string{"USD", "EUR", "BDT"}

// Base contains common fields for all content records.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record returns the embedded Base so generic store code can manage
// identity and timestamps without per-entity plumbing.
func (b *Base) Record() *Base { return b }

// RecordID returns the record's id. The value receiver makes the method
// available on stored record values as well as pointers.
func (b Base) RecordID() string { return b.ID }

// BlogPost is a published article on the public blog.
type BlogPost struct {
	Base
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Category string   `json:"category"`
	Excerpt  string   `json:"excerpt"`
	Body     string   `json:"body"`
	Tags     []string `json:"tags"`
	CoverURL string   `json:"cover_url,omitempty"`
	Featured bool     `json:"featured"`
}

// Project is a portfolio project entry.
type Project struct {
	Base
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Summary     string   `json:"summary"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	RepoURL     string   `json:"repo_url,omitempty"`
	LiveURL     string   `json:"live_url,omitempty"`
	Features    []string `json:"features"`
	TechStack   []string `json:"tech_stack"`
	ImageURL    string   `json:"image_url,omitempty"`
	Featured    bool     `json:"featured"`
}

// Achievement records an award, certification, or recognition.
type Achievement struct {
	Base
	Title        string `json:"title"`
	Organization string `json:"organization"`
	Date         string `json:"date"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Experience records a professional role.
type Experience struct {
	Base
	Role       string   `json:"role"`
	Company    string   `json:"company"`
	Location   string   `json:"location,omitempty"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date,omitempty"`
	Highlights []string `json:"highlights"`
}

// LibraryItem is a book, paper, or course in the curated library. Premium
// items carry a price and sit behind the mock checkout flow.
type LibraryItem struct {
	Base
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Author     string `json:"author"`
	Category   string `json:"category"`
	CoverURL   string `json:"cover_url,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Premium    bool   `json:"premium"`
	PriceCents int    `json:"price_cents"`
}

// VisualArtwork is a piece in the visual arts gallery.
type VisualArtwork struct {
	Base
	Title       string `json:"title"`
	Medium      string `json:"medium"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// JournalPost is a personal writing published outside the main blog.
type JournalPost struct {
	Base
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Body     string `json:"body"`
	Language string `json:"language"`
	Likes    int    `json:"likes"`
	Featured bool   `json:"featured"`
}

// FAQEntry is a question/answer pair shown on the FAQ page.
type FAQEntry struct {
	Base
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SocialInitiative records volunteer or community work.
type SocialInitiative struct {
	Base
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Role         string   `json:"role,omitempty"`
	Description  string   `json:"description"`
	ImageURL     string   `json:"image_url,omitempty"`
	Links        []string `json:"links,omitempty"`
}

// SubscriptionPlan is a tier in the mock subscription flow.
type SubscriptionPlan struct {
	Base
	Name       string       `json:"name"`
	PriceCents int          `json:"price_cents"`
	Interval   PlanInterval `json:"interval"`
	Features   []string     `json:"features"`
	Popular    bool         `json:"popular"`
}

// UserAccount is a registered site user. PlanID references a subscription
// plan when the user has an active (mock) subscription.
type UserAccount struct {
	Base
	Email        string     `json:"email"`
	DisplayName  string     `json:"display_name"`
	PlanID       *string    `json:"plan_id,omitempty"`
	SubscribedAt *time.Time `json:"subscribed_at,omitempty"`
}

// HomePage is the singleton document backing the landing page.
type HomePage struct {
	Base
	Headline           string   `json:"headline"`
	Tagline            string   `json:"tagline"`
	IntroText          string   `json:"intro_text,omitempty"`
	HeroImageURL       string   `json:"hero_image_url,omitempty"`
	FeaturedProjectIDs []string `json:"featured_project_ids"`
}

// AboutPage is the singleton document backing the about page.
type AboutPage struct {
	Base
	Heading     string   `json:"heading"`
	Bio         string   `json:"bio"`
	PortraitURL string   `json:"portrait_url,omitempty"`
	Skills      []string `json:"skills"`
	Interests   []string `json:"interests"`
}

// PaymentSettings is the singleton document controlling the mock checkout.
type PaymentSettings struct {
	Base
	CheckoutEnabled  bool   `json:"checkout_enabled"`
	Currency         string `json:"currency"`
	MockGatewayLabel string `json:"mock_gateway_label"`
	SuccessMessage   string `json:"success_message"`
}
