package domain

import "time"

// TicketPriority enumerates SLA urgency tiers, highest first.
type TicketPriority string

const (
	PriorityCritical TicketPriority = "critical"
	PriorityHigh     TicketPriority = "high"
	PriorityMedium   TicketPriority = "medium"
	PriorityLow      TicketPriority = "low"
)

// ValidPriority reports whether p is one of the fixed priority tiers.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID                  int64
	ExternalKey         string
	Title               string
	Description         string
	RequesterID         int64
	AssigneeID          *int64
	CategoryID          int64
	StatusID            int64
	Priority            TicketPriority
	CreatedAt           time.Time
	UpdatedAt           time.Time
	ResolvedAt          *time.Time
	ClosedAt            *time.Time
	SLADueDate          *time.Time
	EstimatedHours      *float64
	ActualHours         *float64
	SatisfactionRating  *int
	SatisfactionComment *string
	IsDeleted           bool
}

// IsCritical reports whether the ticket is exempt from business-hours
// restrictions (critical incidents count 24/7).
func (t *Ticket) IsCritical() bool {
	return t.Priority == PriorityCritical
}

// PriorityLevel returns the numeric rank of the priority, 1 being highest.
// Unknown priorities sort last.
func (t *Ticket) PriorityLevel() int {
	switch t.Priority {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	}
	return 99
}

// ResolutionHours returns wall-clock hours between creation and resolution,
// or nil when the ticket is unresolved or has no creation timestamp.
func (t *Ticket) ResolutionHours() *float64 {
	if t.ResolvedAt == nil || t.CreatedAt.IsZero() {
		return nil
	}
	hours := t.ResolvedAt.Sub(t.CreatedAt).Hours()
	return &hours
}
