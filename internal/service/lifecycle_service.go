package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

const minTitleLength = 5

// LifecycleService coordinates ticket workflows: creation, assignment,
// guarded status transitions and the audit trail that records them.
type LifecycleService struct {
	tickets    repository.TicketRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	history    repository.HistoryRepository
	catalog    *domain.StatusCatalog
	calculator *sla.Calculator
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo   repository.TicketRepository
	UserRepo     repository.UserRepository
	CategoryRepo repository.CategoryRepository
	HistoryRepo  repository.HistoryRepository
	Catalog      *domain.StatusCatalog
	Calculator   *sla.Calculator
	Dispatcher   events.Dispatcher
	Metrics      *observability.Metrics
	Now          func() time.Time
}

// CreateInput describes ticket creation payload.
type CreateInput struct {
	Title          string
	Description    string
	CategoryID     int64
	Priority       domain.TicketPriority
	EstimatedHours *float64
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &LifecycleService{
		tickets:    deps.TicketRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		history:    deps.HistoryRepo,
		catalog:    deps.Catalog,
		calculator: deps.Calculator,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		now:        now,
	}
}

// Create opens a new ticket for the actor. The due date is derived from the
// category SLA override when one is set, otherwise from the priority table.
func (s *LifecycleService) Create(ctx context.Context, actor *domain.User, input CreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if len([]rune(title)) < minTitleLength {
		return nil, apperrors.NewValidationError("title too short", map[string]any{
			"min_length": minTitleLength,
		})
	}
	if !domain.ValidPriority(input.Priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{
			"priority": string(input.Priority),
		})
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !category.IsActive {
		return nil, apperrors.NewValidationError("category inactive", map[string]any{
			"category_id": category.ID,
		})
	}

	initial := s.catalog.Initial()
	createdAt := s.now()

	slaHours := s.calculator.LimitHours(input.Priority)
	if category.SLAHours > 0 {
		slaHours = category.SLAHours
	}
	due := s.calculator.DueDate(createdAt, slaHours, input.Priority == domain.PriorityCritical)

	ticket := &domain.Ticket{
		ExternalKey:    newExternalKey(),
		Title:          title,
		Description:    strings.TrimSpace(input.Description),
		RequesterID:    actor.ID,
		CategoryID:     category.ID,
		StatusID:       initial.ID,
		Priority:       input.Priority,
		SLADueDate:     &due,
		EstimatedHours: input.EstimatedHours,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if err := s.recordHistory(ctx, &domain.HistoryEntry{
		TicketID: ticket.ID,
		Action:   domain.ActionCreate,
		NewValue: strPtr(string(initial.Code)),
		ActorID:  actor.ID,
		Metadata: map[string]any{
			"priority":    string(ticket.Priority),
			"category_id": ticket.CategoryID,
		},
	}); err != nil {
		return nil, err
	}

	s.metrics.RecordLifecycle("create")
	s.publishEvent(ctx, events.EventTicketCreated, ticket.ID, actor.ID, events.TicketCreatedPayload{
		RequesterID: ticket.RequesterID,
		CategoryID:  ticket.CategoryID,
		Priority:    ticket.Priority,
		Title:       ticket.Title,
		SLADueDate:  ticket.SLADueDate,
	})
	return ticket, nil
}

// Get loads a ticket visible to the actor. Requesters only see their own
// tickets; executors and admins see everything.
func (s *LifecycleService) Get(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.checkVisibility(actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetByKey resolves a ticket by its external key, the identifier printed on
// confirmations and quoted in correspondence.
func (s *LifecycleService) GetByKey(ctx context.Context, actor *domain.User, key string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByExternalKey(ctx, strings.ToUpper(strings.TrimSpace(key)))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.checkVisibility(actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *LifecycleService) checkVisibility(actor *domain.User, ticket *domain.Ticket) error {
	if ticket.IsDeleted && !actor.IsAdmin() {
		return apperrors.NewNotFound("ticket", map[string]any{"id": ticket.ID})
	}
	if !actor.CanManageTickets() && ticket.RequesterID != actor.ID {
		return apperrors.NewForbidden("not your ticket")
	}
	return nil
}

// List applies the filter, constrained to the actor's visibility.
func (s *LifecycleService) List(ctx context.Context, actor *domain.User, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if !actor.CanManageTickets() {
		filter.RequesterID = &actor.ID
		filter.IncludeDeleted = false
	}
	if filter.IncludeDeleted && !actor.IsAdmin() {
		filter.IncludeDeleted = false
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Assign hands the ticket to an executor. Assigning a fresh ticket moves it
// into work automatically. An optional comment lands in the audit entry.
func (s *LifecycleService) Assign(ctx context.Context, actor *domain.User, ticketID, assigneeID int64, comment string) (*domain.Ticket, error) {
	if !actor.CanManageTickets() {
		return nil, apperrors.NewForbidden("executor role required")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.catalog.IsFinished(ticket) {
		return nil, apperrors.NewConflict("ticket already finished", map[string]any{
			"status_id": ticket.StatusID,
		})
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !assignee.IsExecutor() || !assignee.Active {
		return nil, apperrors.NewValidationError("assignee cannot take tickets", map[string]any{
			"assignee_id": assigneeID,
		})
	}

	oldAssignee := ticket.AssigneeID
	ticket.AssigneeID = &assignee.ID
	ticket.UpdatedAt = s.now()

	current, ok := s.catalog.ByID(ticket.StatusID)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Errorf("unknown status id %d", ticket.StatusID))
	}
	autoStarted := false
	if current.Code == domain.StatusCodeNew {
		if inProgress, ok := s.catalog.ByCode(domain.StatusCodeInProgress); ok {
			ticket.StatusID = inProgress.ID
			autoStarted = true
		}
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	entry := &domain.HistoryEntry{
		TicketID:  ticket.ID,
		Action:    domain.ActionAssign,
		NewValue:  strPtr(fmt.Sprintf("%d", assignee.ID)),
		ActorID:   actor.ID,
		FieldName: strPtr("assignee_id"),
	}
	if oldAssignee != nil {
		entry.OldValue = strPtr(fmt.Sprintf("%d", *oldAssignee))
	}
	if comment = strings.TrimSpace(comment); comment != "" {
		entry.Comment = &comment
	}
	if autoStarted {
		entry.Metadata = map[string]any{"auto_status": string(domain.StatusCodeInProgress)}
	}
	if err := s.recordHistory(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.RecordLifecycle("assign")
	s.publishEvent(ctx, events.EventTicketAssigned, ticket.ID, actor.ID, events.TicketAssignedPayload{
		OldAssigneeID: oldAssignee,
		NewAssigneeID: assignee.ID,
	})
	return ticket, nil
}

// ChangeStatus moves the ticket through the workflow. Guards run in order:
// terminal state, allowed next statuses, actor role, required comment.
func (s *LifecycleService) ChangeStatus(ctx context.Context, actor *domain.User, ticketID, newStatusID int64, comment string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !actor.CanManageTickets() && ticket.RequesterID != actor.ID {
		return nil, apperrors.NewForbidden("not your ticket")
	}

	current, ok := s.catalog.ByID(ticket.StatusID)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Errorf("unknown status id %d", ticket.StatusID))
	}
	target, ok := s.catalog.ByID(newStatusID)
	if !ok {
		return nil, apperrors.NewNotFound("status", map[string]any{"id": newStatusID})
	}

	comment = strings.TrimSpace(comment)

	if current.IsFinal {
		return nil, apperrors.NewTransitionViolation("terminal",
			"ticket is in a terminal status", map[string]any{
				"current": string(current.Code),
			})
	}
	if !current.CanTransitionTo(target.ID) {
		return nil, apperrors.NewTransitionViolation("next_statuses",
			"transition not allowed from current status", map[string]any{
				"current": string(current.Code),
				"target":  string(target.Code),
			})
	}
	if !target.IsAllowedForRole(actor.Role) {
		return nil, apperrors.NewTransitionViolation("allowed_roles",
			"role may not set this status", map[string]any{
				"target": string(target.Code),
				"role":   string(actor.Role),
			})
	}
	if target.RequiresComment && comment == "" {
		return nil, apperrors.NewTransitionViolation("requires_comment",
			"status requires a comment", map[string]any{
				"target": string(target.Code),
			})
	}

	now := s.now()
	oldStatusID := ticket.StatusID
	ticket.StatusID = target.ID
	ticket.UpdatedAt = now

	// Resolved is terminal, so these stamps are written exactly once.
	switch target.Code {
	case domain.StatusCodeResolved:
		ticket.ResolvedAt = &now
		elapsed := s.calculator.ElapsedBusinessHours(ticket.CreatedAt, now, ticket.IsCritical())
		ticket.ActualHours = &elapsed
	case domain.StatusCodeClosed:
		ticket.ClosedAt = &now
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	entry := &domain.HistoryEntry{
		TicketID:  ticket.ID,
		Action:    domain.ActionStatusChange,
		OldValue:  strPtr(string(current.Code)),
		NewValue:  strPtr(string(target.Code)),
		ActorID:   actor.ID,
		FieldName: strPtr("status_id"),
		Metadata: map[string]any{
			"old_status_id": oldStatusID,
			"new_status_id": target.ID,
		},
	}
	if comment != "" {
		entry.Comment = &comment
	}
	if err := s.recordHistory(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.RecordLifecycle("status_change")
	s.publishEvent(ctx, events.EventTicketStatusChanged, ticket.ID, actor.ID, events.TicketStatusChangedPayload{
		OldStatusID: oldStatusID,
		NewStatusID: target.ID,
		NewCode:     target.Code,
		Comment:     comment,
	})
	return ticket, nil
}

// Reject moves the ticket to the rejected status. A reason, when given, is
// appended to the description so the requester sees why.
func (s *LifecycleService) Reject(ctx context.Context, actor *domain.User, ticketID int64, reason string) (*domain.Ticket, error) {
	reason = strings.TrimSpace(reason)
	rejected, ok := s.catalog.ByCode(domain.StatusCodeRejected)
	if !ok {
		return nil, apperrors.NewInternalError(fmt.Errorf("rejected status missing from catalog"))
	}

	ticket, err := s.ChangeStatus(ctx, actor, ticketID, rejected.ID, reason)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		return ticket, nil
	}

	ticket.Description = ticket.Description + "\n\nRejection reason: " + reason
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// AddComment appends a comment to the audit trail without touching the
// ticket row.
func (s *LifecycleService) AddComment(ctx context.Context, actor *domain.User, ticketID int64, text string) (*domain.HistoryEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("comment cannot be empty", nil)
	}

	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}

	entry := &domain.HistoryEntry{
		TicketID: ticket.ID,
		Action:   domain.ActionComment,
		Comment:  &text,
		ActorID:  actor.ID,
	}
	if err := s.recordHistory(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.RecordLifecycle("comment")
	s.publishEvent(ctx, events.EventTicketCommented, ticket.ID, actor.ID, events.TicketCommentedPayload{
		AuthorID: actor.ID,
		Preview:  preview(text, 120),
	})
	return entry, nil
}

// AddSatisfaction records the requester's rating on a finished ticket.
func (s *LifecycleService) AddSatisfaction(ctx context.Context, actor *domain.User, ticketID int64, rating int, comment string) (*domain.Ticket, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{
			"rating": rating,
		})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if ticket.RequesterID != actor.ID && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only the requester may rate the ticket")
	}
	if !s.catalog.IsFinished(ticket) {
		return nil, apperrors.NewConflict("ticket is still open", map[string]any{
			"status_id": ticket.StatusID,
		})
	}

	ticket.SatisfactionRating = &rating
	comment = strings.TrimSpace(comment)
	if comment != "" {
		ticket.SatisfactionComment = &comment
	}
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	entry := &domain.HistoryEntry{
		TicketID: ticket.ID,
		Action:   domain.ActionSatisfaction,
		NewValue: strPtr(fmt.Sprintf("%d", rating)),
		ActorID:  actor.ID,
	}
	if comment != "" {
		entry.Comment = &comment
	}
	if err := s.recordHistory(ctx, entry); err != nil {
		return nil, err
	}

	s.metrics.RecordLifecycle("satisfaction")
	return ticket, nil
}

// SoftDelete hides the ticket from normal listings while keeping the row and
// its audit trail.
func (s *LifecycleService) SoftDelete(ctx context.Context, actor *domain.User, ticketID int64) error {
	if !actor.CanManageTickets() {
		return apperrors.NewForbidden("executor role required")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if ticket.IsDeleted {
		return apperrors.NewConflict("ticket already deleted", nil)
	}

	ticket.IsDeleted = true
	ticket.UpdatedAt = s.now()
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return apperrors.MapError(err)
	}

	if err := s.recordHistory(ctx, &domain.HistoryEntry{
		TicketID: ticket.ID,
		Action:   domain.ActionDelete,
		ActorID:  actor.ID,
		Metadata: map[string]any{"soft": true},
	}); err != nil {
		return err
	}

	s.metrics.RecordLifecycle("soft_delete")
	s.publishEvent(ctx, events.EventTicketDeleted, ticket.ID, actor.ID, events.TicketDeletedPayload{Soft: true})
	return nil
}

// HardDelete removes the ticket row permanently. Admin only.
func (s *LifecycleService) HardDelete(ctx context.Context, actor *domain.User, ticketID int64) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return apperrors.MapError(err)
	}

	if err := s.tickets.HardDelete(ctx, ticket.ID); err != nil {
		return apperrors.MapError(err)
	}

	s.metrics.RecordLifecycle("hard_delete")
	s.publishEvent(ctx, events.EventTicketDeleted, ticket.ID, actor.ID, events.TicketDeletedPayload{Soft: false})
	return nil
}

// History returns the audit trail of a ticket the actor may see.
func (s *LifecycleService) History(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.HistoryEntry, error) {
	if _, err := s.Get(ctx, actor, ticketID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByTicket(ctx, ticketID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// SLAReport computes the current SLA standing of a visible ticket.
func (s *LifecycleService) SLAReport(ctx context.Context, actor *domain.User, ticketID int64) (*sla.Report, error) {
	ticket, err := s.Get(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	report := s.calculator.Compute(ticket, s.now())
	return &report, nil
}

// recordHistory persists an audit entry. History failures abort the calling
// operation; the trail must not silently diverge from the data.
func (s *LifecycleService) recordHistory(ctx context.Context, entry *domain.HistoryEntry) error {
	if err := s.history.Create(ctx, entry); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("record history: %w", err))
	}
	return nil
}

// publishEvent dispatches fire-and-forget. Subscriber failures never fail the
// operation that triggered them.
func (s *LifecycleService) publishEvent(ctx context.Context, eventType events.EventType, ticketID, actorID int64, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		ActorID:   actorID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

func newExternalKey() string {
	return "TCK-" + strings.ToUpper(uuid.NewString()[:8])
}

func strPtr(s string) *string {
	return &s
}

func preview(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
