package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/sla"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	CategoryID     int64                 `json:"category_id"`
	Priority       domain.TicketPriority `json:"priority"`
	EstimatedHours *float64              `json:"estimated_hours"`
}

// AssignRequest payload.
type AssignRequest struct {
	AssigneeID int64  `json:"assignee_id"`
	Comment    string `json:"comment"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	StatusID int64  `json:"status_id"`
	Comment  string `json:"comment"`
}

// RejectRequest payload.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// CommentRequest payload.
type CommentRequest struct {
	Text string `json:"text"`
}

// SatisfactionRequest payload.
type SatisfactionRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// TicketSummary response.
type TicketSummary struct {
	ID          int64                 `json:"id"`
	ExternalKey string                `json:"external_key"`
	Title       string                `json:"title"`
	StatusID    int64                 `json:"status_id"`
	Priority    domain.TicketPriority `json:"priority"`
	AssigneeID  *int64                `json:"assignee_id"`
	SLADueDate  *time.Time            `json:"sla_due_date"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID                  int64                 `json:"id"`
	ExternalKey         string                `json:"external_key"`
	Title               string                `json:"title"`
	Description         string                `json:"description"`
	RequesterID         int64                 `json:"requester_id"`
	AssigneeID          *int64                `json:"assignee_id"`
	CategoryID          int64                 `json:"category_id"`
	StatusID            int64                 `json:"status_id"`
	Priority            domain.TicketPriority `json:"priority"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
	ResolvedAt          *time.Time            `json:"resolved_at"`
	ClosedAt            *time.Time            `json:"closed_at"`
	SLADueDate          *time.Time            `json:"sla_due_date"`
	EstimatedHours      *float64              `json:"estimated_hours"`
	ActualHours         *float64              `json:"actual_hours"`
	SatisfactionRating  *int                  `json:"satisfaction_rating"`
	SatisfactionComment *string               `json:"satisfaction_comment"`
	SLA                 *sla.Report           `json:"sla,omitempty"`
}

// HistoryEntryResponse represents one audit trail record.
type HistoryEntryResponse struct {
	ID        int64                `json:"id"`
	Action    domain.HistoryAction `json:"action"`
	OldValue  *string              `json:"old_value"`
	NewValue  *string              `json:"new_value"`
	Comment   *string              `json:"comment"`
	ActorID   int64                `json:"actor_id"`
	FieldName *string              `json:"field_name"`
	Metadata  map[string]any       `json:"metadata,omitempty"`
	ChangedAt time.Time            `json:"changed_at"`
}

// StatusResponse describes one configured lifecycle status.
type StatusResponse struct {
	ID              int64             `json:"id"`
	Name            string            `json:"name"`
	Code            domain.StatusCode `json:"code"`
	Color           string            `json:"color"`
	SortOrder       int               `json:"sort_order"`
	IsInitial       bool              `json:"is_initial"`
	IsFinal         bool              `json:"is_final"`
	RequiresComment bool              `json:"requires_comment"`
	AllowedRoles    []domain.UserRole `json:"allowed_roles"`
	NextStatuses    []int64           `json:"next_statuses"`
}

// FromTicketSummary maps the domain ticket onto the list shape.
func FromTicketSummary(t *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:          t.ID,
		ExternalKey: t.ExternalKey,
		Title:       t.Title,
		StatusID:    t.StatusID,
		Priority:    t.Priority,
		AssigneeID:  t.AssigneeID,
		SLADueDate:  t.SLADueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// FromTicketDetail maps the domain ticket onto the detail shape.
func FromTicketDetail(t *domain.Ticket, report *sla.Report) TicketDetailResponse {
	return TicketDetailResponse{
		ID:                  t.ID,
		ExternalKey:         t.ExternalKey,
		Title:               t.Title,
		Description:         t.Description,
		RequesterID:         t.RequesterID,
		AssigneeID:          t.AssigneeID,
		CategoryID:          t.CategoryID,
		StatusID:            t.StatusID,
		Priority:            t.Priority,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
		ResolvedAt:          t.ResolvedAt,
		ClosedAt:            t.ClosedAt,
		SLADueDate:          t.SLADueDate,
		EstimatedHours:      t.EstimatedHours,
		ActualHours:         t.ActualHours,
		SatisfactionRating:  t.SatisfactionRating,
		SatisfactionComment: t.SatisfactionComment,
		SLA:                 report,
	}
}

// FromHistoryEntry maps one audit record.
func FromHistoryEntry(e *domain.HistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:        e.ID,
		Action:    e.Action,
		OldValue:  e.OldValue,
		NewValue:  e.NewValue,
		Comment:   e.Comment,
		ActorID:   e.ActorID,
		FieldName: e.FieldName,
		Metadata:  e.Metadata,
		ChangedAt: e.ChangedAt,
	}
}

// FromStatus maps one catalog entry.
func FromStatus(s *domain.Status) StatusResponse {
	return StatusResponse{
		ID:              s.ID,
		Name:            s.Name,
		Code:            s.Code,
		Color:           s.Color,
		SortOrder:       s.SortOrder,
		IsInitial:       s.IsInitial,
		IsFinal:         s.IsFinal,
		RequiresComment: s.RequiresComment,
		AllowedRoles:    s.AllowedRoles,
		NextStatuses:    s.NextStatuses,
	}
}
