package content

import (
	"context"
	"strings"
	"time"

	"contentcore/internal/identity"
	"contentcore/internal/store"
	"contentcore/pkg/domain"
)

// Service is the operational facade over the content store: typed CRUD per
// entity, the subscription flow, and instrumentation around every operation.
type Service struct {
	store   store.Persistent
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
	clock   func() time.Time
}

// ServiceOption customizes Service construction.
type ServiceOption func(*Service)

// WithLogger installs a structured logger. The default discards everything.
func WithLogger(logger Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithAuditRecorder installs an audit trail sink.
func WithAuditRecorder(recorder AuditRecorder) ServiceOption {
	return func(s *Service) { s.audit = recorder }
}

// WithMetricsRecorder installs a metrics sink.
func WithMetricsRecorder(recorder MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = recorder }
}

// WithTracer installs a tracer opening one span per operation.
func WithTracer(tracer Tracer) ServiceOption {
	return func(s *Service) { s.tracer = tracer }
}

// WithClock overrides the service clock, used by tests for deterministic
// audit timestamps and durations.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// NewService wraps an already-constructed store.
func NewService(st store.Persistent, opts ...ServiceOption) *Service {
	s := &Service{
		store:  st,
		logger: noopLogger{},
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewInMemoryService builds a service over a fresh in-memory store with the
// default catalog. Intended for tests and ephemeral tooling.
func NewInMemoryService(engine *domain.RulesEngine, opts ...ServiceOption) *Service {
	return NewService(store.New(DefaultCatalog(), engine), opts...)
}

// Store exposes the underlying persistent store for snapshot import/export
// and read paths that bypass the service facade.
func (s *Service) Store() store.Persistent { return s.store }

// Close releases the underlying store.
func (s *Service) Close() error { return s.store.Close() }

// recordPtr mirrors the store's pointer constraint so the operation helpers
// can reach the embedded Base.
type recordPtr[T any] interface {
	*T
	Record() *domain.Base
}

func runCreate[T any, P recordPtr[T]](ctx context.Context, s *Service, operation string, candidate T) (T, domain.Result, error) {
	ctx, finish := s.instrument(ctx, operation)
	var out T
	res, err := s.store.RunInTransaction(ctx, func(tx *store.Tx) error {
		created, err := store.Create[T, P](tx, candidate)
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	finish(P(&out).Record().ID, err)
	if err != nil {
		var zero T
		return zero, res, err
	}
	return out, res, nil
}

func runUpdate[T any, P recordPtr[T]](ctx context.Context, s *Service, operation, id string, mutate func(*T) error) (T, domain.Result, error) {
	ctx, finish := s.instrument(ctx, operation)
	var out T
	res, err := s.store.RunInTransaction(ctx, func(tx *store.Tx) error {
		updated, err := store.Update[T, P](tx, id, mutate)
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	finish(id, err)
	if err != nil {
		var zero T
		return zero, res, err
	}
	return out, res, nil
}

func runDelete[T any](ctx context.Context, s *Service, operation, id string) (domain.Result, error) {
	ctx, finish := s.instrument(ctx, operation)
	res, err := s.store.RunInTransaction(ctx, func(tx *store.Tx) error {
		return store.Delete[T](tx, id)
	})
	finish(id, err)
	return res, err
}

func runPut[T any, P recordPtr[T]](ctx context.Context, s *Service, operation string, doc T) (T, domain.Result, error) {
	ctx, finish := s.instrument(ctx, operation)
	var out T
	res, err := s.store.RunInTransaction(ctx, func(tx *store.Tx) error {
		stored, err := store.PutSingleton[T, P](tx, doc)
		if err != nil {
			return err
		}
		out = stored
		return nil
	})
	finish(P(&out).Record().ID, err)
	if err != nil {
		var zero T
		return zero, res, err
	}
	return out, res, nil
}

// CreateBlogPost validates and stores a new blog post at the head of the
// collection.
func (s *Service) CreateBlogPost(ctx context.Context, post domain.BlogPost) (domain.BlogPost, domain.Result, error) {
	return runCreate[domain.BlogPost](ctx, s, "create_blog_post", post)
}

// UpdateBlogPost applies the mutator over the stored post.
func (s *Service) UpdateBlogPost(ctx context.Context, id string, mutate func(*domain.BlogPost) error) (domain.BlogPost, domain.Result, error) {
	return runUpdate[domain.BlogPost](ctx, s, "update_blog_post", id, mutate)
}

// DeleteBlogPost removes a post by id.
func (s *Service) DeleteBlogPost(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.BlogPost](ctx, s, "delete_blog_post", id)
}

// ListBlogPosts returns the ordered blog collection, newest first.
func (s *Service) ListBlogPosts(ctx context.Context) []domain.BlogPost {
	return store.ListAll[domain.BlogPost](ctx, s.store)
}

// GetBlogPost retrieves one post by id.
func (s *Service) GetBlogPost(ctx context.Context, id string) (domain.BlogPost, bool) {
	return store.Find[domain.BlogPost](ctx, s.store, id)
}

func (s *Service) CreateProject(ctx context.Context, project domain.Project) (domain.Project, domain.Result, error) {
	return runCreate[domain.Project](ctx, s, "create_project", project)
}

func (s *Service) UpdateProject(ctx context.Context, id string, mutate func(*domain.Project) error) (domain.Project, domain.Result, error) {
	return runUpdate[domain.Project](ctx, s, "update_project", id, mutate)
}

func (s *Service) DeleteProject(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.Project](ctx, s, "delete_project", id)
}

func (s *Service) ListProjects(ctx context.Context) []domain.Project {
	return store.ListAll[domain.Project](ctx, s.store)
}

func (s *Service) GetProject(ctx context.Context, id string) (domain.Project, bool) {
	return store.Find[domain.Project](ctx, s.store, id)
}

func (s *Service) CreateAchievement(ctx context.Context, achievement domain.Achievement) (domain.Achievement, domain.Result, error) {
	return runCreate[domain.Achievement](ctx, s, "create_achievement", achievement)
}

func (s *Service) UpdateAchievement(ctx context.Context, id string, mutate func(*domain.Achievement) error) (domain.Achievement, domain.Result, error) {
	return runUpdate[domain.Achievement](ctx, s, "update_achievement", id, mutate)
}

func (s *Service) DeleteAchievement(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.Achievement](ctx, s, "delete_achievement", id)
}

func (s *Service) ListAchievements(ctx context.Context) []domain.Achievement {
	return store.ListAll[domain.Achievement](ctx, s.store)
}

func (s *Service) GetAchievement(ctx context.Context, id string) (domain.Achievement, bool) {
	return store.Find[domain.Achievement](ctx, s.store, id)
}

func (s *Service) CreateExperience(ctx context.Context, experience domain.Experience) (domain.Experience, domain.Result, error) {
	return runCreate[domain.Experience](ctx, s, "create_experience", experience)
}

func (s *Service) UpdateExperience(ctx context.Context, id string, mutate func(*domain.Experience) error) (domain.Experience, domain.Result, error) {
	return runUpdate[domain.Experience](ctx, s, "update_experience", id, mutate)
}

func (s *Service) DeleteExperience(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.Experience](ctx, s, "delete_experience", id)
}

func (s *Service) ListExperiences(ctx context.Context) []domain.Experience {
	return store.ListAll[domain.Experience](ctx, s.store)
}

func (s *Service) GetExperience(ctx context.Context, id string) (domain.Experience, bool) {
	return store.Find[domain.Experience](ctx, s.store, id)
}

func (s *Service) CreateLibraryItem(ctx context.Context, item domain.LibraryItem) (domain.LibraryItem, domain.Result, error) {
	return runCreate[domain.LibraryItem](ctx, s, "create_library_item", item)
}

func (s *Service) UpdateLibraryItem(ctx context.Context, id string, mutate func(*domain.LibraryItem) error) (domain.LibraryItem, domain.Result, error) {
	return runUpdate[domain.LibraryItem](ctx, s, "update_library_item", id, mutate)
}

func (s *Service) DeleteLibraryItem(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.LibraryItem](ctx, s, "delete_library_item", id)
}

func (s *Service) ListLibraryItems(ctx context.Context) []domain.LibraryItem {
	return store.ListAll[domain.LibraryItem](ctx, s.store)
}

func (s *Service) GetLibraryItem(ctx context.Context, id string) (domain.LibraryItem, bool) {
	return store.Find[domain.LibraryItem](ctx, s.store, id)
}

func (s *Service) CreateVisualArtwork(ctx context.Context, artwork domain.VisualArtwork) (domain.VisualArtwork, domain.Result, error) {
	return runCreate[domain.VisualArtwork](ctx, s, "create_visual_artwork", artwork)
}

func (s *Service) UpdateVisualArtwork(ctx context.Context, id string, mutate func(*domain.VisualArtwork) error) (domain.VisualArtwork, domain.Result, error) {
	return runUpdate[domain.VisualArtwork](ctx, s, "update_visual_artwork", id, mutate)
}

func (s *Service) DeleteVisualArtwork(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.VisualArtwork](ctx, s, "delete_visual_artwork", id)
}

func (s *Service) ListVisualArtworks(ctx context.Context) []domain.VisualArtwork {
	return store.ListAll[domain.VisualArtwork](ctx, s.store)
}

func (s *Service) GetVisualArtwork(ctx context.Context, id string) (domain.VisualArtwork, bool) {
	return store.Find[domain.VisualArtwork](ctx, s.store, id)
}

func (s *Service) CreateJournalPost(ctx context.Context, post domain.JournalPost) (domain.JournalPost, domain.Result, error) {
	return runCreate[domain.JournalPost](ctx, s, "create_journal_post", post)
}

func (s *Service) UpdateJournalPost(ctx context.Context, id string, mutate func(*domain.JournalPost) error) (domain.JournalPost, domain.Result, error) {
	return runUpdate[domain.JournalPost](ctx, s, "update_journal_post", id, mutate)
}

func (s *Service) DeleteJournalPost(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.JournalPost](ctx, s, "delete_journal_post", id)
}

func (s *Service) ListJournalPosts(ctx context.Context) []domain.JournalPost {
	return store.ListAll[domain.JournalPost](ctx, s.store)
}

func (s *Service) GetJournalPost(ctx context.Context, id string) (domain.JournalPost, bool) {
	return store.Find[domain.JournalPost](ctx, s.store, id)
}

func (s *Service) CreateFAQEntry(ctx context.Context, entry domain.FAQEntry) (domain.FAQEntry, domain.Result, error) {
	return runCreate[domain.FAQEntry](ctx, s, "create_faq_entry", entry)
}

func (s *Service) UpdateFAQEntry(ctx context.Context, id string, mutate func(*domain.FAQEntry) error) (domain.FAQEntry, domain.Result, error) {
	return runUpdate[domain.FAQEntry](ctx, s, "update_faq_entry", id, mutate)
}

func (s *Service) DeleteFAQEntry(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.FAQEntry](ctx, s, "delete_faq_entry", id)
}

func (s *Service) ListFAQEntries(ctx context.Context) []domain.FAQEntry {
	return store.ListAll[domain.FAQEntry](ctx, s.store)
}

func (s *Service) GetFAQEntry(ctx context.Context, id string) (domain.FAQEntry, bool) {
	return store.Find[domain.FAQEntry](ctx, s.store, id)
}

func (s *Service) CreateSocialInitiative(ctx context.Context, initiative domain.SocialInitiative) (domain.SocialInitiative, domain.Result, error) {
	return runCreate[domain.SocialInitiative](ctx, s, "create_social_initiative", initiative)
}

func (s *Service) UpdateSocialInitiative(ctx context.Context, id string, mutate func(*domain.SocialInitiative) error) (domain.SocialInitiative, domain.Result, error) {
	return runUpdate[domain.SocialInitiative](ctx, s, "update_social_initiative", id, mutate)
}

func (s *Service) DeleteSocialInitiative(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.SocialInitiative](ctx, s, "delete_social_initiative", id)
}

func (s *Service) ListSocialInitiatives(ctx context.Context) []domain.SocialInitiative {
	return store.ListAll[domain.SocialInitiative](ctx, s.store)
}

func (s *Service) GetSocialInitiative(ctx context.Context, id string) (domain.SocialInitiative, bool) {
	return store.Find[domain.SocialInitiative](ctx, s.store, id)
}

func (s *Service) CreateSubscriptionPlan(ctx context.Context, plan domain.SubscriptionPlan) (domain.SubscriptionPlan, domain.Result, error) {
	return runCreate[domain.SubscriptionPlan](ctx, s, "create_subscription_plan", plan)
}

func (s *Service) UpdateSubscriptionPlan(ctx context.Context, id string, mutate func(*domain.SubscriptionPlan) error) (domain.SubscriptionPlan, domain.Result, error) {
	return runUpdate[domain.SubscriptionPlan](ctx, s, "update_subscription_plan", id, mutate)
}

// DeleteSubscriptionPlan removes a plan. The plan_reference rule blocks the
// delete while active subscribers still point at it.
func (s *Service) DeleteSubscriptionPlan(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.SubscriptionPlan](ctx, s, "delete_subscription_plan", id)
}

func (s *Service) ListSubscriptionPlans(ctx context.Context) []domain.SubscriptionPlan {
	return store.ListAll[domain.SubscriptionPlan](ctx, s.store)
}

func (s *Service) GetSubscriptionPlan(ctx context.Context, id string) (domain.SubscriptionPlan, bool) {
	return store.Find[domain.SubscriptionPlan](ctx, s.store, id)
}

func (s *Service) CreateUserAccount(ctx context.Context, user domain.UserAccount) (domain.UserAccount, domain.Result, error) {
	return runCreate[domain.UserAccount](ctx, s, "create_user_account", user)
}

func (s *Service) UpdateUserAccount(ctx context.Context, id string, mutate func(*domain.UserAccount) error) (domain.UserAccount, domain.Result, error) {
	return runUpdate[domain.UserAccount](ctx, s, "update_user_account", id, mutate)
}

func (s *Service) DeleteUserAccount(ctx context.Context, id string) (domain.Result, error) {
	return runDelete[domain.UserAccount](ctx, s, "delete_user_account", id)
}

func (s *Service) ListUserAccounts(ctx context.Context) []domain.UserAccount {
	return store.ListAll[domain.UserAccount](ctx, s.store)
}

func (s *Service) GetUserAccount(ctx context.Context, id string) (domain.UserAccount, bool) {
	return store.Find[domain.UserAccount](ctx, s.store, id)
}

// RegisterIdentity ensures a user account exists for a verified identity,
// matching on the normalized email. Existing accounts are returned as-is.
func (s *Service) RegisterIdentity(ctx context.Context, ident identity.Identity) (domain.UserAccount, error) {
	email := strings.ToLower(strings.TrimSpace(ident.Email))
	for _, user := range store.ListAll[domain.UserAccount](ctx, s.store) {
		if user.Email == email {
			return user, nil
		}
	}
	name := strings.TrimSpace(ident.DisplayName)
	if name == "" {
		name = ident.UID
	}
	user, _, err := s.CreateUserAccount(ctx, domain.UserAccount{Email: ident.Email, DisplayName: name})
	return user, err
}

// Subscribe points a user at a subscription plan. The plan must exist; the
// subscription timestamp is taken from the service clock.
func (s *Service) Subscribe(ctx context.Context, userID, planID string) (domain.UserAccount, domain.Result, error) {
	ctx, finish := s.instrument(ctx, "subscribe_user")
	var out domain.UserAccount
	res, err := s.store.RunInTransaction(ctx, func(tx *store.Tx) error {
		if _, ok := store.GetIn[domain.SubscriptionPlan](tx, planID); !ok {
			return domain.ErrNotFound{Entity: domain.EntitySubscriptionPlan, ID: planID}
		}
		subscribedAt := s.clock().UTC()
		updated, err := store.Update(tx, userID, func(u *domain.UserAccount) error {
			u.PlanID = &planID
			u.SubscribedAt = &subscribedAt
			return nil
		})
		if err != nil {
			return err
		}
		out = updated
		return nil
	})
	finish(userID, err)
	if err != nil {
		return domain.UserAccount{}, res, err
	}
	return out, res, nil
}

// Unsubscribe clears a user's plan reference.
func (s *Service) Unsubscribe(ctx context.Context, userID string) (domain.UserAccount, domain.Result, error) {
	user, res, err := runUpdate[domain.UserAccount](ctx, s, "unsubscribe_user", userID, func(u *domain.UserAccount) error {
		u.PlanID = nil
		u.SubscribedAt = nil
		return nil
	})
	return user, res, err
}

// HomePage returns the landing page document, falling back to the built-in
// default when none has been stored.
func (s *Service) HomePage(ctx context.Context) domain.HomePage {
	return store.Document[domain.HomePage](ctx, s.store)
}

// SetHomePage validates and replaces the landing page document.
func (s *Service) SetHomePage(ctx context.Context, doc domain.HomePage) (domain.HomePage, domain.Result, error) {
	return runPut[domain.HomePage](ctx, s, "set_home_page", doc)
}

func (s *Service) AboutPage(ctx context.Context) domain.AboutPage {
	return store.Document[domain.AboutPage](ctx, s.store)
}

func (s *Service) SetAboutPage(ctx context.Context, doc domain.AboutPage) (domain.AboutPage, domain.Result, error) {
	return runPut[domain.AboutPage](ctx, s, "set_about_page", doc)
}

func (s *Service) PaymentSettings(ctx context.Context) domain.PaymentSettings {
	return store.Document[domain.PaymentSettings](ctx, s.store)
}

func (s *Service) SetPaymentSettings(ctx context.Context, doc domain.PaymentSettings) (domain.PaymentSettings, domain.Result, error) {
	return runPut[domain.PaymentSettings](ctx, s, "set_payment_settings", doc)
}
