package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketCommented     EventType = "ticket_commented"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventSLABreached         EventType = "sla_breached"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	RequesterID int64                 `json:"requester_id"`
	CategoryID  int64                 `json:"category_id"`
	Priority    domain.TicketPriority `json:"priority"`
	Title       string                `json:"title"`
	SLADueDate  *time.Time            `json:"sla_due_date,omitempty"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	OldAssigneeID *int64 `json:"old_assignee_id,omitempty"`
	NewAssigneeID int64  `json:"new_assignee_id"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatusID int64             `json:"old_status_id"`
	NewStatusID int64             `json:"new_status_id"`
	NewCode     domain.StatusCode `json:"new_code"`
	Comment     string            `json:"comment,omitempty"`
}

// TicketCommentedPayload payload.
type TicketCommentedPayload struct {
	AuthorID int64  `json:"author_id"`
	Preview  string `json:"preview"`
}

// TicketDeletedPayload payload.
type TicketDeletedPayload struct {
	Soft bool `json:"soft"`
}

// SLABreachedPayload payload.
type SLABreachedPayload struct {
	Priority     domain.TicketPriority `json:"priority"`
	ElapsedHours float64               `json:"elapsed_hours"`
	LimitHours   int                   `json:"limit_hours"`
	OverrunHours float64               `json:"overrun_hours"`
}
