package content

import (
	"context"
	"time"

	"github.com/google/uuid"

	"contentcore/pkg/domain"
)

// Logger is the minimal structured logging surface the Service depends on.
// The CLI adapts zap onto it; core packages stay detached from the logging
// library.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricsRecorder observes service operation outcomes.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// TraceSpan terminates a trace started by a Tracer.
type TraceSpan interface {
	End(err error)
}

// Tracer opens spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

// AuditStatus marks the outcome recorded in an audit entry.
type AuditStatus string

// Audit entry outcomes.
const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusError   AuditStatus = "error"
)

// AuditEntry captures one service operation for the audit trail.
type AuditEntry struct {
	ID        string            `json:"id"`
	Operation string            `json:"operation"`
	Entity    domain.EntityType `json:"entity"`
	Action    domain.Action     `json:"action"`
	EntityID  string            `json:"entity_id,omitempty"`
	Status    AuditStatus       `json:"status"`
	Error     string            `json:"error,omitempty"`
	Duration  time.Duration     `json:"duration"`
	Timestamp time.Time         `json:"timestamp"`
}

// AuditRecorder receives audit entries for completed operations.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// operationMeta resolves an operation name to the entity and action recorded
// in its audit entries. Operations outside the table produce no audit trail.
type operationMeta struct {
	entity domain.EntityType
	action domain.Action
}

var operationCatalog = map[string]operationMeta{
	"create_blog_post":         {domain.EntityBlogPost, domain.ActionCreate},
	"update_blog_post":         {domain.EntityBlogPost, domain.ActionUpdate},
	"delete_blog_post":         {domain.EntityBlogPost, domain.ActionDelete},
	"create_project":           {domain.EntityProject, domain.ActionCreate},
	"update_project":           {domain.EntityProject, domain.ActionUpdate},
	"delete_project":           {domain.EntityProject, domain.ActionDelete},
	"create_achievement":       {domain.EntityAchievement, domain.ActionCreate},
	"update_achievement":       {domain.EntityAchievement, domain.ActionUpdate},
	"delete_achievement":       {domain.EntityAchievement, domain.ActionDelete},
	"create_experience":        {domain.EntityExperience, domain.ActionCreate},
	"update_experience":        {domain.EntityExperience, domain.ActionUpdate},
	"delete_experience":        {domain.EntityExperience, domain.ActionDelete},
	"create_library_item":      {domain.EntityLibraryItem, domain.ActionCreate},
	"update_library_item":      {domain.EntityLibraryItem, domain.ActionUpdate},
	"delete_library_item":      {domain.EntityLibraryItem, domain.ActionDelete},
	"create_visual_artwork":    {domain.EntityVisualArtwork, domain.ActionCreate},
	"update_visual_artwork":    {domain.EntityVisualArtwork, domain.ActionUpdate},
	"delete_visual_artwork":    {domain.EntityVisualArtwork, domain.ActionDelete},
	"create_journal_post":      {domain.EntityJournalPost, domain.ActionCreate},
	"update_journal_post":      {domain.EntityJournalPost, domain.ActionUpdate},
	"delete_journal_post":      {domain.EntityJournalPost, domain.ActionDelete},
	"create_faq_entry":         {domain.EntityFAQEntry, domain.ActionCreate},
	"update_faq_entry":         {domain.EntityFAQEntry, domain.ActionUpdate},
	"delete_faq_entry":         {domain.EntityFAQEntry, domain.ActionDelete},
	"create_social_initiative": {domain.EntitySocialInitiative, domain.ActionCreate},
	"update_social_initiative": {domain.EntitySocialInitiative, domain.ActionUpdate},
	"delete_social_initiative": {domain.EntitySocialInitiative, domain.ActionDelete},
	"create_subscription_plan": {domain.EntitySubscriptionPlan, domain.ActionCreate},
	"update_subscription_plan": {domain.EntitySubscriptionPlan, domain.ActionUpdate},
	"delete_subscription_plan": {domain.EntitySubscriptionPlan, domain.ActionDelete},
	"create_user_account":      {domain.EntityUserAccount, domain.ActionCreate},
	"update_user_account":      {domain.EntityUserAccount, domain.ActionUpdate},
	"delete_user_account":      {domain.EntityUserAccount, domain.ActionDelete},
	"subscribe_user":           {domain.EntityUserAccount, domain.ActionUpdate},
	"unsubscribe_user":         {domain.EntityUserAccount, domain.ActionUpdate},
	"set_home_page":            {domain.EntityHomePage, domain.ActionUpdate},
	"set_about_page":           {domain.EntityAboutPage, domain.ActionUpdate},
	"set_payment_settings":     {domain.EntityPaymentSettings, domain.ActionUpdate},
}

func (s *Service) recordAudit(ctx context.Context, operation, entityID string, opErr error, duration time.Duration) {
	if s.audit == nil {
		return
	}
	meta, known := operationCatalog[operation]
	if !known {
		return
	}
	entry := AuditEntry{
		ID:        uuid.NewString(),
		Operation: operation,
		Entity:    meta.entity,
		Action:    meta.action,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock().UTC(),
	}
	if opErr != nil {
		entry.Status = AuditStatusError
		entry.Error = opErr.Error()
	}
	s.audit.Record(ctx, entry)
}

// instrument opens a span and returns the finish callback every service
// operation defers. The callback feeds the audit trail, metrics, and the
// logger with the operation outcome.
func (s *Service) instrument(ctx context.Context, operation string) (context.Context, func(entityID string, err error)) {
	started := s.clock()
	spanCtx := ctx
	var span TraceSpan
	if s.tracer != nil {
		spanCtx, span = s.tracer.Start(ctx, operation)
	}
	return spanCtx, func(entityID string, err error) {
		duration := s.clock().Sub(started)
		if span != nil {
			span.End(err)
		}
		if s.metrics != nil {
			s.metrics.Observe(ctx, operation, err == nil, duration)
		}
		s.recordAudit(ctx, operation, entityID, err, duration)
		if err != nil {
			s.logger.Warn("operation failed", "operation", operation, "entity_id", entityID, "error", err)
		} else {
			s.logger.Debug("operation complete", "operation", operation, "entity_id", entityID, "duration", duration)
		}
	}
}
